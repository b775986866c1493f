// Package ledger keeps a durable record of every generation request: which
// backend served it, how long it took, and for total failures which
// backends were tried and why they failed.
//
// Handlers build a Record with NewRecord and hand it to a Recorder, which
// writes to a Store asynchronously:
//
//	store, _ := storage.Open(cfg.Ledger)
//	rec := ledger.NewRecorder(store, ledger.Config{BufferSize: 1000},
//	    ledger.WithDropCounter(collector))
//	defer rec.Close()
//
//	rec.Record(ledger.NewRecord(requestID, req, res, err))
//
// Subpackages: storage (memory and SQLite stores) and retention (scheduled
// pruning of old records).
package ledger
