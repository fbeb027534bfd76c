package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/propertypassport/api/internal/config"
	"github.com/propertypassport/api/internal/infra/postgres"
	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/property"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/stakeholder"
	"github.com/propertypassport/api/pkg/domain/user"
	"github.com/propertypassport/api/pkg/password"
)

// SeedFile is the YAML fixture format consumed by the seeder.
type SeedFile struct {
	Users      []SeedUser     `yaml:"users"`
	Properties []SeedProperty `yaml:"properties"`
}

// SeedUser describes one account to create.
type SeedUser struct {
	Email    string `yaml:"email"`
	FullName string `yaml:"full_name"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Admin    bool   `yaml:"admin"`
}

// SeedProperty describes one property and its stakeholders. Owner is the
// email of a user declared in the users section.
type SeedProperty struct {
	Owner        string            `yaml:"owner"`
	AddressLine1 string            `yaml:"address_line1"`
	AddressLine2 string            `yaml:"address_line2"`
	City         string            `yaml:"city"`
	Postcode     string            `yaml:"postcode"`
	Type         string            `yaml:"type"`
	Bedrooms     int               `yaml:"bedrooms"`
	Bathrooms    int               `yaml:"bathrooms"`
	Price        int64             `yaml:"price"`
	EPCRating    string            `yaml:"epc_rating"`
	Public       bool              `yaml:"public"`
	Stakeholders []SeedStakeholder `yaml:"stakeholders"`
}

// SeedStakeholder grants a declared user a role on the property.
type SeedStakeholder struct {
	Email      string `yaml:"email"`
	Status     string `yaml:"status"`
	Permission string `yaml:"permission"`
}

func main() {
	seedFile := flag.String("file", "scripts/seed_data.yaml", "Path to seed YAML file")
	flag.Parse()

	if err := run(*seedFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("\nSeed completed successfully!")
}

func run(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	fmt.Println("Connected to database")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	users := postgres.NewUserRepository(db)
	properties := postgres.NewPropertyRepository(db)
	stakeholders := postgres.NewStakeholderRepository(db)
	hasher := password.New(password.WithCost(cfg.Auth.BcryptCost))

	byEmail := make(map[string]*user.User, len(seed.Users))
	for _, su := range seed.Users {
		u, err := seedUser(ctx, users, hasher, su)
		if err != nil {
			return fmt.Errorf("user %s: %w", su.Email, err)
		}
		byEmail[su.Email] = u
	}
	fmt.Printf("Users: %d\n", len(byEmail))

	created := 0
	for _, sp := range seed.Properties {
		if err := seedProperty(ctx, properties, stakeholders, byEmail, sp); err != nil {
			return fmt.Errorf("property %s: %w", sp.AddressLine1, err)
		}
		created++
	}
	fmt.Printf("Properties: %d\n", created)

	return nil
}

func seedUser(ctx context.Context, repo *postgres.UserRepository, hasher *password.Hasher, su SeedUser) (*user.User, error) {
	if existing, err := repo.GetByEmail(ctx, su.Email); err == nil {
		fmt.Printf("  user %s already exists, skipping\n", su.Email)
		return existing, nil
	} else if !shared.IsNotFound(err) {
		return nil, err
	}

	role, ok := access.ParsePrimaryRole(su.Role)
	if !ok {
		return nil, fmt.Errorf("invalid role %q", su.Role)
	}

	hash, err := hasher.Hash(su.Password)
	if err != nil {
		return nil, err
	}

	u, err := user.New(su.Email, su.FullName, hash, role)
	if err != nil {
		return nil, err
	}
	if su.Admin {
		u.GrantAdmin()
	}

	if err := repo.Create(ctx, u); err != nil {
		return nil, err
	}
	fmt.Printf("  created user %s (%s)\n", su.Email, role)
	return u, nil
}

func seedProperty(
	ctx context.Context,
	properties *postgres.PropertyRepository,
	stakeholders *postgres.StakeholderRepository,
	byEmail map[string]*user.User,
	sp SeedProperty,
) error {
	owner, ok := byEmail[sp.Owner]
	if !ok {
		return fmt.Errorf("owner %q not declared in users section", sp.Owner)
	}

	p, err := property.New(
		sp.AddressLine1, sp.AddressLine2, sp.City, sp.Postcode,
		property.Type(sp.Type), sp.Bedrooms, sp.Bathrooms, sp.Price, sp.EPCRating,
		owner.ID(),
	)
	if err != nil {
		return err
	}
	if sp.Public {
		p.SetPublicVisibility(true)
	}

	if err := properties.Create(ctx, p); err != nil {
		if shared.IsAlreadyExists(err) {
			fmt.Printf("  property %s already exists, skipping\n", sp.AddressLine1)
			return nil
		}
		return err
	}

	ownerRow, err := stakeholder.NewOwner(p.ID(), owner.ID())
	if err != nil {
		return err
	}
	if err := stakeholders.Upsert(ctx, ownerRow); err != nil {
		return err
	}

	ownerID := owner.ID()
	for _, ss := range sp.Stakeholders {
		u, ok := byEmail[ss.Email]
		if !ok {
			return fmt.Errorf("stakeholder %q not declared in users section", ss.Email)
		}
		row, err := stakeholder.New(p.ID(), u.ID(), access.Status(ss.Status), access.Permission(ss.Permission), &ownerID)
		if err != nil {
			return err
		}
		if err := stakeholders.Upsert(ctx, row); err != nil {
			return err
		}
	}

	fmt.Printf("  created property %s (%s)\n", sp.AddressLine1, p.Slug())
	return nil
}
