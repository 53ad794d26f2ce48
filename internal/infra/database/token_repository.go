package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// TokenRepository é o dono da persistência de OAuthToken. Uma linha por
// (provider, creator_id); creator_id vazio é o token global do provider.
type TokenRepository struct {
	DB *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

const tokenColumns = `id, provider, user_email, creator_id, access_token, refresh_token, expires_at`

func (r *TokenRepository) scanOne(row *sql.Row) (*entity.OAuthToken, error) {
	var t entity.OAuthToken
	err := row.Scan(
		&t.ID,
		&t.Provider,
		&t.UserEmail,
		&t.CreatorID,
		&t.AccessToken,
		&t.RefreshToken,
		&t.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Get devolve o token mais recente da chave, sem olhar expiração —
// quem chama decide o que fazer com token vencido.
func (r *TokenRepository) Get(ctx context.Context, provider, creatorID string) (*entity.OAuthToken, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM oauth_tokens
		WHERE provider = $1 AND creator_id = $2
		ORDER BY id DESC
		LIMIT 1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, provider, creatorID))
}

func (r *TokenRepository) GetByEmail(ctx context.Context, provider, email string) (*entity.OAuthToken, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM oauth_tokens
		WHERE provider = $1 AND user_email = $2
		ORDER BY id DESC
		LIMIT 1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, provider, email))
}

// Save faz upsert: a linha da chave é sobrescrita no lugar
func (r *TokenRepository) Save(ctx context.Context, token *entity.OAuthToken) error {
	query := `
		INSERT INTO oauth_tokens (provider, user_email, creator_id, access_token, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider, creator_id)
		DO UPDATE SET
			user_email = EXCLUDED.user_email,
			access_token = EXCLUDED.access_token,
			refresh_token = CASE WHEN EXCLUDED.refresh_token = '' THEN oauth_tokens.refresh_token ELSE EXCLUDED.refresh_token END,
			expires_at = EXCLUDED.expires_at
		RETURNING id
	`

	return r.DB.QueryRowContext(ctx, query,
		token.Provider,
		token.UserEmail,
		token.CreatorID,
		token.AccessToken,
		token.RefreshToken,
		token.ExpiresAt,
	).Scan(&token.ID)
}

// Delete remove só a linha da chave, sem tocar nos outros creators
func (r *TokenRepository) Delete(ctx context.Context, provider, creatorID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM oauth_tokens WHERE provider = $1 AND creator_id = $2`, provider, creatorID)
	return err
}

func (r *TokenRepository) DeleteAll(ctx context.Context, provider string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM oauth_tokens WHERE provider = $1`, provider)
	return err
}
