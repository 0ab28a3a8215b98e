package services

import (
	"fmt"
	"mime/multipart"
	"sync"
)

// MockPhotoService is a mock implementation of PhotoService for testing
type MockPhotoService struct {
	uploadedPhotos map[string]bool
	mu             sync.RWMutex
}

// NewMockPhotoService creates a new mock photo service
func NewMockPhotoService() *MockPhotoService {
	return &MockPhotoService{
		uploadedPhotos: make(map[string]bool),
	}
}

// SetAsMockForTesting sets this mock as the global photo service instance for testing
func (m *MockPhotoService) SetAsMockForTesting() {
	SetPhotoService(m)
}

// UploadPhoto simulates a validated photo upload
func (m *MockPhotoService) UploadPhoto(fileHeader *multipart.FileHeader) (string, error) {
	key := fmt.Sprintf("work-order-photos/mock_%s", fileHeader.Filename)
	m.mu.Lock()
	m.uploadedPhotos[key] = true
	m.mu.Unlock()
	return key, nil
}

// GetPhotoURL returns a mock URL for an uploaded photo
func (m *MockPhotoService) GetPhotoURL(photoKey string) (string, error) {
	if photoKey == "" {
		return "", nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.uploadedPhotos[photoKey] {
		return "", fmt.Errorf("photo not found in mock storage: %s", photoKey)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", photoKey), nil
}

// DeletePhoto removes a photo from mock storage
func (m *MockPhotoService) DeletePhoto(photoKey string) error {
	m.mu.Lock()
	delete(m.uploadedPhotos, photoKey)
	m.mu.Unlock()
	return nil
}

// PhotoExists checks if a photo exists in mock storage
func (m *MockPhotoService) PhotoExists(photoKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uploadedPhotos[photoKey]
}
