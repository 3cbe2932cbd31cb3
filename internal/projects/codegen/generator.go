package codegen

import (
	"context"
	"fmt"
	"time"

	mdomain "github.com/tenderops/procurement-backend/internal/masters/domain"
)

// ReferenceSource resolves the masters a project code is composed from.
// Implementations return (nil, nil) on a lookup miss; only infrastructure
// failures are errors.
type ReferenceSource interface {
	GetOrganisation(ctx context.Context, id int64) (*mdomain.Organisation, error)
	GetItem(ctx context.Context, id int64) (*mdomain.Item, error)
	GetLocation(ctx context.Context, id int64) (*mdomain.Location, error)
}

// CodeSource finds the most recently issued code sharing a prefix.
// Ordering is by insertion (id desc), not lexicographic.
type CodeSource interface {
	LastCodeWithPrefix(ctx context.Context, prefix string) (string, error)
}

// Input names the three code-determining references plus the team.
type Input struct {
	TeamName       string
	OrganisationID *int64
	ItemID         int64
	LocationID     *int64
}

// Generator derives the projectCode and projectName for a project:
// TEAM/FY/ORG/ITEM/LOC/NNNN, where NNNN is the next sequence for that
// exact prefix. The read-then-increment here races with concurrent
// writers; callers must pair it with the unique index on project_code and
// retry on conflict.
type Generator struct {
	refs  ReferenceSource
	codes CodeSource

	// Now is the clock used for the fiscal year token; overridable in tests.
	Now func() time.Time
}

func NewGenerator(refs ReferenceSource, codes CodeSource) *Generator {
	return &Generator{refs: refs, codes: codes, Now: time.Now}
}

// Generate resolves references, composes the prefix for the current fiscal
// year and allocates the next sequence within it.
func (g *Generator) Generate(ctx context.Context, in Input) (projectCode, projectName string, err error) {
	var org *mdomain.Organisation
	if in.OrganisationID != nil {
		org, err = g.refs.GetOrganisation(ctx, *in.OrganisationID)
		if err != nil {
			return "", "", fmt.Errorf("resolve organisation: %w", err)
		}
	}

	item, err := g.refs.GetItem(ctx, in.ItemID)
	if err != nil {
		return "", "", fmt.Errorf("resolve item: %w", err)
	}

	var loc *mdomain.Location
	if in.LocationID != nil {
		loc, err = g.refs.GetLocation(ctx, *in.LocationID)
		if err != nil {
			return "", "", fmt.Errorf("resolve location: %w", err)
		}
	}

	orgSeg, itemSeg, locSeg := Unresolved(), Unresolved(), Unresolved()
	if org != nil {
		orgSeg = Resolved(org.Acronym)
	}
	if item != nil {
		// Items carry no acronym; the segment is the item name itself.
		itemSeg = Resolved(item.Name)
	}
	if loc != nil {
		locSeg = Resolved(loc.Acronym)
	}

	prefix := ComposePrefix(in.TeamName, FiscalYearToken(g.Now()), orgSeg, itemSeg, locSeg)

	last, err := g.codes.LastCodeWithPrefix(ctx, prefix)
	if err != nil {
		return "", "", fmt.Errorf("find last code for prefix: %w", err)
	}

	projectCode = FormatCode(prefix, NextSequence(last))
	projectName = composeName(org, item, loc)
	return projectCode, projectName, nil
}

func composeName(org *mdomain.Organisation, item *mdomain.Item, loc *mdomain.Location) string {
	orgName, itemName, locName := FallbackOrg, FallbackItem, FallbackLoc
	if org != nil && org.Name != "" {
		orgName = org.Name
	}
	if item != nil && item.Name != "" {
		itemName = item.Name
	}
	if loc != nil && loc.Name != "" {
		locName = loc.Name
	}
	return fmt.Sprintf("%s - %s - %s", orgName, itemName, locName)
}
