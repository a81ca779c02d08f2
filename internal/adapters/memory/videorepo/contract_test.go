package videorepo

import (
	"testing"

	"github.com/unique-fitness/gym-admin-api/internal/adapters/contracttest"
	videorepoport "github.com/unique-fitness/gym-admin-api/internal/ports/out/videorepo"
)

func TestContract_VideoRepo(t *testing.T) {
	contracttest.RunVideoRepo(t, func(t *testing.T) (videorepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
