// Package dstore makes objects in a remote object store available as local
// files, caching them under a deterministic directory.
//
// Identifiers are plain strings. A URI with a scheme and an authority, such as
// ais://bucket/dir/file.wav, names a remote object; anything else is a local
// path and passes through untouched. Remote objects are streamed through the
// AIStore CLI (or a configured Client) and stored at
//
//	<cache root>/<host>/<port>/<bucket>/<key>
//
// where host and port come from the AIS_ENDPOINT the cache was built with.
//
// Basic usage:
//
//	c := dstore.New()
//
//	// Fetch once, then serve from the cache
//	path, _ := c.Materialize(ctx, "ais://speech/train/0001.wav", false)
//
//	// Fetch again regardless of the cache
//	path, _ = c.Materialize(ctx, "ais://speech/train/0001.wav", true)
//
//	// Stream without caching
//	rc, _ := c.Open(ctx, "ais://speech/train/0002.wav")
//	defer rc.Close()
//
//	// Memoizing handle
//	obj := c.Object("ais://speech/train/0003.wav")
//	path, _ = obj.Get(ctx, false)
//
// With SDK clients instead of the CLI:
//
//	c := dstore.New(dstore.WithClient(dstore.NewSDKClient()))
//	path, _ := c.Materialize(ctx, "s3://datasets/manifest.json", false)
package dstore
