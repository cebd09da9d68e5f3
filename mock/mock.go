// Package mock is used to generate mock files for testing.
package mock

//go:generate mockgen -source ../session_iface.go -destination mock_session/mock_session_iface.go
