package naming

// StorageStub identifies a storage server's data endpoint (size/read/write,
// spec.md section 6). It is a plain value type compared with ==, per
// spec.md section 9's note that stub identity must be value equality, not
// pointer identity.
type StorageStub struct {
	Address string
}

// CommandStub identifies a storage server's command endpoint
// (create/delete/copy, spec.md section 6). Every registered StorageStub
// has exactly one paired CommandStub (spec.md section 3).
type CommandStub struct {
	Address string
}
