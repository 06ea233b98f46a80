// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

/*
Package media ingests user images and stores them in object storage.

Every upload passes through the same steps:

 1. The declared size, then the bytes actually read, are checked against the
    configured limit.
 2. The content type is sniffed from the bytes (never the file name or the
    client header) and matched against the allow-list.
 3. The image is decoded, downscaled to fit the maximum dimension without
    upscaling, and re-encoded as JPEG.
 4. The result is written to the ImageStorageBackend under
    "{prefix}{unixMillis}-{uuid}.jpg".

Both checks in steps 1 and 2 run before any decoding work.

Storage and rows:

The blob is written before the database row. When the row insert fails the
caller invokes Pipeline.Rollback, which deletes the blob on a best-effort
basis. Deletes go the other way: the row first, then Pipeline.Remove. A blob
left behind by either path is found by the Reconciler, which periodically
lists each prefix and removes objects no row references once they are older
than the grace period.

Backends:

  - S3Backend: any S3-compatible store via aws-sdk-go-v2
  - LocalBackend: a directory on disk, served under a public base URL

NewBackend picks one at startup from configuration.
*/
package media
