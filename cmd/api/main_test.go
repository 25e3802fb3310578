package main

import (
	"context"
	"testing"

	appconfig "github.com/vetfinder-my/platform/internal/config"
	"github.com/vetfinder-my/platform/internal/directory"
	"github.com/vetfinder-my/platform/pkg/logging"
)

func TestBuildRepositoryMemoryStore(t *testing.T) {
	cfg := &appconfig.Config{UseMemoryStore: true}
	logger := logging.Discard()

	repo, stats, cleanup, err := buildRepository(cfg, logger)
	if err != nil {
		t.Fatalf("buildRepository: %v", err)
	}
	defer cleanup()

	if repo == nil {
		t.Fatal("expected a repository")
	}
	if stats != nil {
		t.Fatal("stats should be unavailable on the memory store")
	}
	if _, ok := repo.(*directory.InMemoryRepository); !ok {
		t.Fatalf("expected in-memory repository, got %T", repo)
	}

	if _, err := repo.SelectAll(context.Background()); err != nil {
		t.Fatalf("select all: %v", err)
	}
}
