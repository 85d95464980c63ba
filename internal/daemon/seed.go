package daemon

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/guit-county/guit-portal/internal/resource"
	"github.com/guit-county/guit-portal/internal/store"
)

// Default admin account, created when no admin exists.
const (
	AdminUsername = "admin"
	AdminPassword = "admin123"
	AdminEmail    = "admin@guitcounty.gov"
)

// Seed creates the default admin account unless a user with the admin role
// exists. It reports whether the account was created.
func Seed(ctx context.Context, st store.Store) (bool, error) {
	d := resource.MustLookup(resource.CollectionUsers)

	docs, err := st.List(ctx, resource.CollectionUsers, store.Query{})
	if err != nil {
		return false, err
	}

	for _, doc := range docs {
		e, errDecode := d.Decode(doc)
		if errDecode != nil {
			return false, errDecode
		}

		if e.(*resource.User).Role == resource.RoleAdmin {
			return false, nil
		}
	}

	body, err := json.Marshal(map[string]string{
		"username":  AdminUsername,
		"password":  AdminPassword,
		"email":     AdminEmail,
		"firstName": "System",
		"lastName":  "Administrator",
		"role":      resource.RoleAdmin,
	})
	if err != nil {
		return false, err
	}

	doc, err := d.NewDocument(body)
	if err != nil {
		return false, err
	}

	if err = st.Create(ctx, &doc); err != nil {
		return false, err
	}

	log.Warn().Str("username", AdminUsername).Msg("created default admin account, change its password")

	return true, nil
}
