// Package state holds the API health snapshot shared by the health poller and
// the UI.
//
// # Overview
//
// The poller in package app pings the API root on an interval and records
// each outcome with Store.Update. The UI reads Store.Snapshot on its own tick
// to render the online/offline indicator and service version in the header.
//
//	Producer (health poller):      Consumer (UI):
//	┌────────────────────┐         ┌────────────────────┐
//	│ client.Health()    │         │                    │
//	│      ↓             │         │                    │
//	│ store.Update()     │────────→│ store.Snapshot()   │
//	│      ↓             │ (mutex) │      ↓             │
//	│ sleep (backoff)    │         │ render header      │
//	└────────────────────┘         └────────────────────┘
//
// # Update Semantics
//
//	// Success: replace health, clear error, reset failure count
//	store.Update(health, nil)
//
//	// Failure: keep last known health, record error, count failure
//	store.Update(nil, err)
//
// Snapshot.IsOffline reports true after two consecutive failures, so a single
// slow check does not flip the indicator.
//
// # Concurrency Model
//
// Store uses a sync.RWMutex held only while copying. The zero value is ready
// to use. Snapshot returns a copy; the error value is re-wrapped so callers
// never share it with the store.
package state
