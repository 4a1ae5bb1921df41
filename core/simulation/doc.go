// Package simulation wires the library components together and drives them
// with concurrent reader and borrower actors for a fixed duration.
//
// Readers repeatedly enter the catalog's shared read section, linger for a
// random interval, and leave. Borrowers repeatedly submit borrow requests to
// the bounded queue (reporting a full queue as a normal outcome) and wake the
// librarian. The single librarian drains the queue and checks books out
// under exclusive access. All actors observe one shutdown context, and every
// blocking call underneath is timeout-bounded, so a run winds down within a
// short grace period.
//
// Basic usage:
//
//	var cfg simulation.Config
//	config.MustLoad(&cfg)
//
//	sim, err := simulation.New(cfg, simulation.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	report, err := sim.Run(ctx)
//	if err != nil {
//		return err
//	}
//	fmt.Println(report)
package simulation
