// Package catalog holds the shared book inventory behind a readers-writer
// gate. Readers inspect the count concurrently; checkouts mutate it under
// exclusive ownership. The count never goes below zero: a checkout against
// an empty inventory reports ErrUnavailable, which is a normal business
// outcome rather than a fault.
package catalog
