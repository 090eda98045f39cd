package input

import (
	"context"

	"formfill/internal/domain/entity"
)

type FormFiller interface {
	Fill(ctx context.Context, cfg *entity.FormConfig) (*entity.FillResult, error)
}
