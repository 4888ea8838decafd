/*
Package fingerprint provides a content-fingerprint cache for skipping expensive
work when the files driving that work have not changed.

It tracks one digest per file path, persists the mapping across process runs in
a human-diffable JSON file, and layers a batch "transform-if-changed" pipeline
on top of the change detection, including a bounded-concurrency execution mode
and many-inputs-to-one-output aggregate transforms.

# Overview

A Store answers one question, "has this file changed since I last asked?",
and mutates itself as a side effect of answering: a new or different digest is
recorded and written through to the cache file before the call returns. The
transform pipeline uses that answer to decide, per input file or per input
group, whether a user-supplied transform must run.

This is not a build system. There is no dependency graph and no rebuild
propagation; the store tracks leaf-level "did these bytes change" facts only.

# Path keys

Paths are cache keys exactly as spelled by the caller. "./a.txt" and its
absolute form are two independent entries. Canonicalize before calling if you
need one entry per logical file.

# Basic usage

Creating a store:

	store, err := fingerprint.Open("fingerprint_cache.json")
	if err != nil {
	    log.Fatalf("Failed to open store: %v", err)
	}

Skipping work for unchanged files:

	changed, err := store.HasChanged("schema.proto")
	if err != nil {
	    log.Fatal(err)
	}
	if changed {
	    regenerate()
	}

Running a transform over a batch, copying only changed files:

	outcomes, err := store.Transform(inputs, "out", fingerprint.WithOutputExt(".gen"))

Bounded-concurrency processing, at most four transforms in flight:

	outcomes, err := store.TransformContext(ctx, inputs, "out",
	    fingerprint.WithConcurrency(4),
	    fingerprint.WithTransform(minify),
	)

# Change detection semantics

The first check of any path reports changed. A vanished file reports
unchanged and its entry is dropped: a self-healing cache, at the cost of a
typo'd path never reporting anything. Digests default to xxHash64 and are
change detectors, not security primitives; swap in any hash.Hash (md5.New,
xxh3, sha256) with WithHashFunc.

The map is written through on every mutation. A failed write is logged as a
warning on the store's logger and the in-memory map remains authoritative; a
corrupt or unreadable cache file loads as an empty map on the next Open.
*/
package fingerprint
