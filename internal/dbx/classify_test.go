package dbx

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"validation", fmt.Errorf("tag: %w", common.ErrValidation), common.ErrValidation},
		{"not found", fmt.Errorf("tag: %w", common.ErrNotFound), common.ErrNotFound},
		{"deadline", fmt.Errorf("acquire: %w", context.DeadlineExceeded), common.ErrConnection},
		{"bad conn", driver.ErrBadConn, common.ErrConnection},
		{"conn done", sql.ErrConnDone, common.ErrConnection},
		{"pg connection exception", &pgconn.PgError{Code: "08006"}, common.ErrConnection},
		{"pg cannot connect now", &pgconn.PgError{Code: "57P03"}, common.ErrConnection},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, common.ErrDatabase},
		{"plain", errors.New("syntax error"), common.ErrDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Kind(tt.err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsConnectionError_Nil(t *testing.T) {
	assert.False(t, IsConnectionError(nil))
}
