// Package cgt computes Australian capital-gains tax outcomes for securities
// disposals. It matches sale transactions against a ledger of previously
// acquired parcels (tax lots), classifies each matched lot as long-term or
// short-term, applies the 50% CGT discount to eligible long-term gains, and
// converts amounts between currencies using historical daily exchange rates.
//
// The core functionalities include:
//   - Parcel Ledger: a per-symbol chronological inventory of tax lots,
//     consumed and split as sales are processed.
//   - Lot Selection Policies: a pluggable strategy abstraction with two
//     implementations, a tax-optimal greedy heuristic (long-term parcels
//     first, highest cost basis first) and plain FIFO.
//   - Currency Conversion: an immutable historical rate table with bounded
//     forward-fill fallback and an append-only conversion audit trail.
//   - Disposal Engine: per-sale orchestration producing disposal records and
//     warnings; one bad sale never aborts a batch.
//   - Strategy Comparison: two independent simulations over identical input,
//     reconciled into a tax-savings summary.
//
// This package serves as the foundational logic for the `cgtcalc`
// command-line tool, ensuring that all operations are consistent and based
// on a single source of truth.
package cgt
