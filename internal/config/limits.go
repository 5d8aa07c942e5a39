package config

const (
	// MaxFileSize is the per-file byte cap for uploads. Files larger
	// than this are rejected before any content-store write.
	MaxFileSize = 50 << 20 // 50 MiB

	// IngestBatchSize bounds how many files of one bulk request are in
	// flight at once. Batches run sequentially; files within a batch
	// run concurrently.
	IngestBatchSize = 5

	// MinFolderNameLength / MaxFolderNameLength bound folder names.
	MinFolderNameLength = 2
	MaxFolderNameLength = 50

	// MaxTitleLength caps document titles to fit VARCHAR-sized columns
	// and keep listings readable.
	MaxTitleLength = 255

	// MaxMultipartMemory is how much of a multipart upload is held in
	// memory before spilling to disk.
	MaxMultipartMemory = 32 << 20
)
