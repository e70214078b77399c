package portal

import (
	"CiviPortal/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PortalService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewPortalService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &PortalService{config: cfg, pool: pool}
}

func (s *PortalService) Name() string {
	return "portal"
}

func (s *PortalService) Start() error {
	go StartPortalService(s.pool)
	return nil
}

func (s *PortalService) Stop() error {
	return nil
}
