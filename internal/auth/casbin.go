package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/util"
	sqlxadapter "github.com/memwey/casbin-sqlx-adapter"

	"go-portfolio-app/internal/logger"
)

// NewEnforcer creates and configures a new Casbin enforcer.
// It sets up the database adapter, loads the model from the specified path,
// and loads all authorization policies from the database.
//
// Parameters:
//   - driverName: The name of the database driver (e.g., "mysql").
//   - dsn: The Data Source Name for the database connection.
//   - modelPath: The file path to the Casbin model configuration (`.conf`).
//
// Returns a fully configured Casbin enforcer or an error if setup fails.
func NewEnforcer(driverName, dsn, modelPath string) (*casbin.Enforcer, error) {
	// Initialize the database adapter for Casbin. This allows Casbin to store
	// its policies in our application's database.
	opts := &sqlxadapter.AdapterOptions{
		DriverName:     driverName,
		DataSourceName: dsn,
		TableName:      "casbin_rule",
	}
	adapter := sqlxadapter.NewAdapterFromOptions(opts)

	// Create a new enforcer with the model file and the database adapter.
	enforcer, err := casbin.NewEnforcer(modelPath, adapter)
	if err != nil {
		return nil, err
	}

	// keyMatch2 allows wildcard matching in paths (e.g. "/admin/*" against
	// "/admin/blog_posts/3/edit"). It's required by our model.
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}

	return enforcer, nil
}

// SeedDefaultPolicies ensures that the application has a baseline set of
// authorization rules. It checks if each default policy exists before adding
// it, making the operation idempotent and safe to run on every start.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	// Anonymous visitors can read every public page; editors additionally
	// reach the admin area, the upload relay, and the gallery endpoint.
	policies := [][]string{
		{"anonymous", "/", "GET"},
		{"anonymous", "/blog", "GET"},
		{"anonymous", "/blog/*", "GET"},
		{"anonymous", "/projects", "GET"},
		{"anonymous", "/projects/*", "GET"},
		{"anonymous", "/code", "GET"},
		{"anonymous", "/code/*", "GET"},
		{"anonymous", "/research", "GET"},
		{"anonymous", "/research/*", "GET"},
		{"anonymous", "/gameplay", "GET"},
		{"anonymous", "/gameplay/*", "GET"},
		{"anonymous", "/resume", "GET"},
		{"anonymous", "/gallery", "GET"},
		{"anonymous", "/contact", "GET"},
		{"anonymous", "/robots.txt", "GET"},
		{"anonymous", "/sitemap.xml", "GET"},
		{"anonymous", "/static/*", "GET"},
		{"anonymous", "/uploads/*", "GET"},
		{"anonymous", "/auth/login", "GET"},
		{"anonymous", "/auth/signin", "POST"},
		{"anonymous", "/auth/sso", "GET"},
		{"anonymous", "/auth/callback", "GET"},
		{"anonymous", "/auth/signout", "POST"},

		{"editor", "/admin", "GET"},
		{"editor", "/admin/*", "GET"},
		{"editor", "/admin/*", "POST"},
		{"editor", "/api/upload", "POST"},
		{"editor", "/api/gallery", "POST"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Granting the 'editor' role all permissions of the 'anonymous' role.
	if has, _ := e.HasRoleForUser("editor", "anonymous"); !has {
		if _, err := e.AddRoleForUser("editor", "anonymous"); err != nil {
			log.Error(err, "Failed to add role 'editor' -> 'anonymous'")
		}
	}
	log.Info("Policy seeding complete.")
}
