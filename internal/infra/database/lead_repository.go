package database

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, adviser_name, lead_name, linkedin_url, lead_title, company_name, domain, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.AdviserName,
		lead.LeadName,
		lead.LinkedinURL,
		lead.LeadTitle,
		lead.CompanyName,
		lead.Domain,
		lead.CreatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrLeadAlreadyExists
		}

		log.Printf("Erro crítico no banco ao salvar lead: %v", err)
		return err
	}

	return nil
}

// FindByCompanyName compara sem case, igual ao match da planilha
func (r *LeadRepository) FindByCompanyName(ctx context.Context, companyName string) (*entity.Lead, error) {
	query := `
		SELECT id, adviser_name, lead_name, linkedin_url, lead_title, company_name, COALESCE(domain, ''), created_at
		FROM leads
		WHERE LOWER(company_name) = LOWER(TRIM($1))
	`

	var lead entity.Lead
	err := r.DB.QueryRowContext(ctx, query, companyName).Scan(
		&lead.ID,
		&lead.AdviserName,
		&lead.LeadName,
		&lead.LinkedinURL,
		&lead.LeadTitle,
		&lead.CompanyName,
		&lead.Domain,
		&lead.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &lead, nil
}

func (r *LeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	query := `
		SELECT id, adviser_name, lead_name, linkedin_url, lead_title, company_name, COALESCE(domain, ''), created_at
		FROM leads
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		var lead entity.Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.AdviserName,
			&lead.LeadName,
			&lead.LinkedinURL,
			&lead.LeadTitle,
			&lead.CompanyName,
			&lead.Domain,
			&lead.CreatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}
