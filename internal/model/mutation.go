// internal/model/mutation.go
package model

// MutationResult carries the number of rows an UPDATE or DELETE touched.
// Zero means the targeted id did not exist.
type MutationResult struct {
	Changes int64 `json:"changes"`
}

type CustomerUpdate struct {
	Customer Customer
	MutationResult
}

type AddressUpdate struct {
	Address Address
	MutationResult
}
