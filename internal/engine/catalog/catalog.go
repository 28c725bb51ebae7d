// Package catalog holds the in-memory list of client organizations for
// one scheduling session.
package catalog

import (
	"context"

	"promoboard-engine/internal/common/logger"
	"promoboard-engine/internal/models"
)

// OrganizationFetcher is the remote collaborator the catalog loads from.
type OrganizationFetcher interface {
	FetchOrganizations(ctx context.Context) ([]models.Organization, error)
}

// Catalog is loaded once per session trigger and replaced wholesale. A
// transport failure leaves it empty; an empty catalog means "no
// recommendations possible", never a fatal condition.
type Catalog struct {
	fetcher OrganizationFetcher
	logger  logger.Logger

	orgs   []models.Organization
	byName map[string]models.Organization
}

func New(fetcher OrganizationFetcher, log logger.Logger) *Catalog {
	return &Catalog{
		fetcher: fetcher,
		logger:  log,
		byName:  make(map[string]models.Organization),
	}
}

// Load fetches the organization list, failing soft: on error the catalog
// is left empty and the error is only logged.
func (c *Catalog) Load(ctx context.Context) {
	orgs, err := c.fetcher.FetchOrganizations(ctx)
	if err != nil {
		c.logger.Warn("organization catalog load failed, continuing with empty catalog", map[string]interface{}{
			"error": err.Error(),
		})
		c.replace(nil)
		return
	}

	c.replace(orgs)
	c.logger.Info("organization catalog loaded", map[string]interface{}{
		"organizations": len(orgs),
	})
}

func (c *Catalog) replace(orgs []models.Organization) {
	c.orgs = orgs
	c.byName = make(map[string]models.Organization, len(orgs))
	for _, org := range orgs {
		c.byName[org.Name] = org
	}
}

// Organizations returns the loaded organizations, possibly empty.
func (c *Catalog) Organizations() []models.Organization {
	return c.orgs
}

// ByName looks up an organization by its unique name.
func (c *Catalog) ByName(name string) (models.Organization, bool) {
	org, ok := c.byName[name]
	return org, ok
}

// Len reports the number of loaded organizations.
func (c *Catalog) Len() int {
	return len(c.orgs)
}
