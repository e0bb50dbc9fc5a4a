// Package mocks provides gomock implementations of the client ports for tests.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockIdentityAPI(ctrl)
//	api.EXPECT().WhoAmI(gomock.Any()).Return(user, nil)
package mocks

// IdentityAPI: WhoAmI, Login, Logout, Register, VerifyOTP
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=identity_api_mock.go github.com/imgshare/gallery-client/internal/ports IdentityAPI

// GalleryAPI: FetchGallery, DeleteImage, UploadImage, ListComments, AddComment
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=gallery_api_mock.go github.com/imgshare/gallery-client/internal/ports GalleryAPI

// KeyValueStore: Get, Set, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=key_value_store_mock.go github.com/imgshare/gallery-client/internal/ports KeyValueStore
