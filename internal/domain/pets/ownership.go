package pets

import "context"

// OwnerOf expone el ownerUserID de una mascota.
// Evita que otros módulos (reports) carguen el perfil entero solo
// para un check de permisos.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}
