package repository

import (
	"context"

	"carbooking/internal/domain/car"
	"carbooking/internal/infra"
	"carbooking/internal/infra/db"
	"carbooking/internal/pkg/pgconv"
	"carbooking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CarRepository struct {
	db db.DBTX
}

func NewCarRepository(dbtx db.DBTX) *CarRepository {
	return &CarRepository{db: dbtx}
}

const updateCarConditionalSQL = `
UPDATE cars SET
	status = COALESCE($3, status),
	branch_id = COALESCE($4, branch_id),
	version = version + 1,
	updated_at = now()
WHERE id = $1 AND version = $2`

// Only the completion transition writes the car row; everything else treats
// it as read-only. The version check catches a racing completion or fleet edit.
func (r *CarRepository) UpdateConditional(ctx context.Context, id uuid.UUID, expectedVersion int32, patch shared.CarPatch) (int64, error) {
	tag, err := r.db.Exec(ctx, updateCarConditionalSQL,
		pgconv.UUIDToPgtype(id),
		expectedVersion,
		carStatusPtrToText(patch.Status),
		pgconv.UUIDPtrToPgtype(patch.BranchID),
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to update car", err)
	}
	return tag.RowsAffected(), nil
}

func carStatusPtrToText(s *car.Status) *string {
	if s == nil {
		return nil
	}
	v := s.String()
	return &v
}
