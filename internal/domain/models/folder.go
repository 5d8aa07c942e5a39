package models

// Folder is a derived grouping over document records sharing a category.
// It has no storage row of its own; Name doubles as its identifier.
type Folder struct {
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
	IsDefault     bool   `json:"is_default"`
}

// CreateFolderRequest carries the name of a folder to create.
type CreateFolderRequest struct {
	Name string `json:"name"`
}

// RenameFolderRequest carries the new name for a folder.
type RenameFolderRequest struct {
	Name string `json:"name"`
}

// DeleteFolderResult is the outcome of a folder deletion. A non-empty
// folder deleted without force is not an error: the result reports that
// confirmation is required and carries the count the caller must confirm.
type DeleteFolderResult struct {
	Folder               string `json:"folder"`
	Deleted              bool   `json:"deleted"`
	RequiresConfirmation bool   `json:"confirmation_required"`
	DocumentCount        int    `json:"document_count"`
}

// ReconcileResult reports a reconciliation pass: how many folders are
// managed (hold a placeholder) and how many stray records were moved back
// to the default folder.
type ReconcileResult struct {
	ManagedFolderCount int `json:"managed_folder_count"`
	Reassigned         int `json:"reassigned"`
}
