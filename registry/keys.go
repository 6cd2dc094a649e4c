package registry

import "fmt"

// Key prefix for document records.
const documentRecordPrefix = "docrec"

// makeDocumentKey generates the key for a document record by id.
func makeDocumentKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentRecordPrefix, id))
}

// documentKeyPrefix returns the scan prefix covering all document records.
func documentKeyPrefix() []byte {
	return []byte(documentRecordPrefix + ":")
}
