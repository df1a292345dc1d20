// Package sink appends quote records to the durable tick store.
//
// The write path is deliberately at-most-once: a single-row INSERT per
// record, no batching, no retry. A failed append is logged and dropped so
// that a store hiccup never tears down the live stream. Records are
// timestamped with the ingestion-time clock at append; the upstream wire
// format carries no timestamp this design trusts.
package sink
