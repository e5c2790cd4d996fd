/*
A golang embeddable todo record store backed by a single JSON snapshot. Every
operation reads the whole snapshot, and every mutation writes the whole
snapshot back, so the snapshot on disk (or in a bucket) is the only source of
truth and no state is cached between calls.

Mutations (Insert, Update, Delete) are serialized by a lock owned by the
[Store], acquired with a bounded wait. Reads do not take the lock, they rely on
the [Snapshot] medium replacing its content atomically (see the snapshot
package for the file and S3 media).

The lock is per [Store] value. Two processes sharing the same snapshot file are
not protected from each other.

Performance considerations:
  - Every operation is O(collection size) in time and I/O, which is fine for a
    personal todo list and a poor fit for anything bigger
  - With the default [snapshot.Sync] write mode every mutation costs two fsync
    calls (temporary file and parent directory)
*/
package todo
