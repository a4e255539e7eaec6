// Package simpleexport manages the lifecycle of background-generated data
// exports: records are created pending, a staged file is published once into
// a content-addressed archive keyed by (owner namespace, content hash), and
// an expiry sweep soft-deletes records and reclaims blobs that no other live
// export references.
//
// Basic usage:
//
//	svc, err := simpleexport.New(
//	    simpleexport.WithRepository(memory.New()),
//	    simpleexport.WithArchive(memorystorage.New()),
//	)
//	export, err := svc.CreateExport(ctx, simpleexport.CreateExportRequest{
//	    Operation: "search_export",
//	    CreatorID: roleID,
//	    Label:     "Search results",
//	    FilePath:  "/tmp/results.csv",
//	})
//	err = svc.Publish(ctx, export)
//	url, err := svc.GetDownloadURL(ctx, export)
//
// Identical payloads staged by the same owner share one archive object;
// DeletePublication only removes the blob once the last live referrer of its
// content hash is deleted.
package simpleexport
