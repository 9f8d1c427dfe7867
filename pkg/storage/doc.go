// Package storage persists streamed uploads on the local filesystem or in
// Amazon S3 and S3-compatible services (MinIO, Wasabi, and so on).
//
// Both backends implement Storage. Save takes an io.Reader rather than a
// buffered multipart file, so decoded parts and re-encoded images can be
// written without touching a temporary *multipart.FileHeader. Every stored
// Object reports its size, media type and SHA-256 digest.
//
// Keys are slash separated and relative. CleanKey normalizes them and rejects
// keys that would escape the storage root with ErrInvalidPath.
//
// # Usage
//
//	store, err := storage.NewLocalStorage("./data", "/files/")
//	if err != nil {
//		return err
//	}
//	obj, err := store.Save(ctx, "animals/rex.png", &buf, "image/png")
//	if err != nil {
//		return err
//	}
//	url := store.URL(obj.Path)
//
// S3 storage:
//
//	store, err := storage.NewS3Storage(ctx, storage.S3Config{
//		Bucket: "uploads",
//		Region: "us-east-1",
//	}, storage.WithS3UploadTimeout(30*time.Second))
//
// # Error Handling
//
// Errors wrap the package sentinels and can be matched with errors.Is:
//
//	if errors.Is(err, storage.ErrFileNotFound) {
//		// handle missing object
//	}
//
// S3 API errors are classified into ErrFileNotFound, ErrBucketNotFound,
// ErrAccessDenied, ErrRequestTimeout and ErrServiceUnavailable.
package storage
