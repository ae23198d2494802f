// Package billing holds invoices and the overdue billing arithmetic.
//
// Every calculation takes the reference time as an argument; nothing in
// this package reads the clock. Aggregates skip malformed invoices and
// report them in a Report; single-record evaluation returns the error.
package billing
