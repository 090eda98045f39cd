package input

import (
	"context"

	"formfill/internal/domain/entity"
)

type PageInspector interface {
	Inspect(ctx context.Context, url string) ([]entity.FormControl, error)
	Scaffold(ctx context.Context, url string) (*entity.FormConfig, error)
}
