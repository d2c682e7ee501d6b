package services

import (
	"context"
	"fmt"
	"sync"
)

// MockS3Service is a mock implementation of S3Interface for testing
type MockS3Service struct {
	uploadedObjects map[string][]byte // map of key to object content
	mu              sync.RWMutex

	// UploadErr, when set, makes every upload fail with this error.
	UploadErr error
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		uploadedObjects: make(map[string][]byte),
	}
}

// UploadObject simulates uploading an object to S3
func (m *MockS3Service) UploadObject(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}

	m.mu.Lock()
	m.uploadedObjects[key] = append([]byte(nil), body...)
	m.mu.Unlock()

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s", key), nil
}

// ObjectExists checks if an object exists in mock storage
func (m *MockS3Service) ObjectExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploadedObjects[key]
	return exists
}

// UploadedObjects returns all uploaded objects (for testing assertions)
func (m *MockS3Service) UploadedObjects() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	objects := make(map[string][]byte, len(m.uploadedObjects))
	for k, v := range m.uploadedObjects {
		objects[k] = v
	}
	return objects
}

// Clear removes all objects from mock storage
func (m *MockS3Service) Clear() {
	m.mu.Lock()
	m.uploadedObjects = make(map[string][]byte)
	m.mu.Unlock()
}
