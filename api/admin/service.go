package admin

import (
	"CiviPortal/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewAdminService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &AdminService{config: cfg, pool: pool}
}

func (s *AdminService) Name() string {
	return "admin"
}

func (s *AdminService) Start() error {
	go StartAdminService(s.pool)
	return nil
}

func (s *AdminService) Stop() error {
	return nil
}
