// Package replay provides single-use enforcement for token ids.
//
// A Guard records every consumed jti for the remaining lifetime of its token.
// TryConsume answers true exactly once per id within that window, even under
// concurrent callers, because each backend claims the id in one atomic step:
//
//   - Memory: a mutex-guarded map with a background sweep (single process only).
//   - Redis: SET NX with expiry.
//   - Postgres: INSERT .. ON CONFLICT .. WHERE expired RETURNING, schema in Migrations.
//   - Mongo: upsert filtered on an expired record, duplicate _id means replay,
//     with a TTL index created by EnsureIndexes.
//
// Nop accepts everything and is meant for deployments that do not need
// single-use tokens.
//
// # Usage
//
//	guard := replay.WithTimeout(replay.NewRedis(client), 2*time.Second)
//	m, err := token.New(keys, token.WithReplayGuard(guard))
//
// Wrap networked guards with WithTimeout. Any error from a guard makes token
// verification fail, so an unreachable backend rejects tokens instead of
// letting replays through.
package replay
