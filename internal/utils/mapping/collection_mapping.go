package mapping

import (
	"github.com/articletrack/articletrack_app/internal/core/domain"
	"github.com/articletrack/articletrack_app/internal/models"
)

// ToModelCollection converts a domain Collection to a model Collection
func ToModelCollection(d domain.Collection) models.Collection {
	return models.Collection{
		CollectionID: d.CollectionID,
		Name:         d.Name,
		Acronym:      d.Acronym,
		Description:  d.Description,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCollection converts a model Collection to a domain Collection
func ToDomainCollection(m models.Collection) domain.Collection {
	return domain.Collection{
		CollectionID: m.CollectionID,
		Name:         m.Name,
		Acronym:      m.Acronym,
		Description:  m.Description,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCollectionSlice converts a slice of model Collections to domain shape
func ToDomainCollectionSlice(ms []models.Collection) []domain.Collection {
	ds := make([]domain.Collection, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCollection(m)
	}
	return ds
}
