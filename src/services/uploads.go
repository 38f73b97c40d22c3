package services

import (
	"fmt"
	"log"

	"github.com/convocatorias/convocatorias-backend/src/storage"
)

// uploadBatch tracks files written during one transaction so they can be
// removed again if the transaction rolls back.
type uploadBatch struct {
	store storage.FileStore
	saved []string
}

func newUploadBatch(store storage.FileStore) *uploadBatch {
	return &uploadBatch{store: store}
}

func (b *uploadBatch) save(dir string, upload *storage.Upload) (string, error) {
	ref, err := b.store.Save(dir, upload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	b.saved = append(b.saved, ref)
	return ref, nil
}

// resolve stores upload when present, otherwise keeps the existing reference.
func (b *uploadBatch) resolve(dir string, upload *storage.Upload, existing *string) (*string, error) {
	if upload == nil {
		return existing, nil
	}
	ref, err := b.save(dir, upload)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (b *uploadBatch) discard() {
	for _, ref := range b.saved {
		if err := b.store.Remove(ref); err != nil {
			log.Printf("[STORAGE] could not remove %s: %v", ref, err)
		}
	}
	b.saved = nil
}

// removeLater deletes replaced files once the owning transaction committed.
func removeLater(store storage.FileStore, refs []string) {
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := store.Remove(ref); err != nil {
			log.Printf("[STORAGE] could not remove replaced file %s: %v", ref, err)
		}
	}
}
