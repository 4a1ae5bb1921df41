// Package gate provides a readers-writer exclusion primitive with writer
// priority. Any number of readers may hold the gate concurrently, or a single
// writer may hold it exclusively. A writer announcing intent blocks new
// readers immediately while already-admitted readers finish their section,
// which bounds the writer's wait to at most one reader-section duration.
//
// Basic usage:
//
//	g := gate.New()
//
//	// Reader side
//	if err := g.BeginRead(ctx); err != nil {
//		return err
//	}
//	defer g.EndRead()
//	// ... inspect shared state ...
//
//	// Writer side
//	if err := g.BeginWrite(ctx); err != nil {
//		return err
//	}
//	defer g.EndWrite()
//	// ... mutate shared state ...
//
// All blocking calls honor context cancellation, so a shutdown context bounds
// how long any waiter can be parked. Misuse that would corrupt the gate's
// state (releasing a side that is not held) panics: it is a programming
// defect, not a runtime condition.
package gate
