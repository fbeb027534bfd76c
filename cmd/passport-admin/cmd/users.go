package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/propertypassport/api/internal/infra/postgres"
	"github.com/propertypassport/api/pkg/domain/user"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "List resources",
}

var getUsersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "List user accounts",
	RunE:    runGetUsers,
}

var grantAdminCmd = &cobra.Command{
	Use:   "grant-admin EMAIL",
	Short: "Grant platform admin rights to an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runGrantAdmin,
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete-user EMAIL",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteUser,
}

func init() {
	getUsersCmd.Flags().Int("page", 1, "Page number")
	getUsersCmd.Flags().Int("per-page", 20, "Items per page")

	deleteUserCmd.Flags().Bool("yes", false, "Skip confirmation prompt")

	getCmd.AddCommand(getUsersCmd)
}

type userRow struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	PrimaryRole string     `json:"primary_role"`
	IsAdmin     bool       `json:"is_admin"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUserRow(u *user.User) userRow {
	return userRow{
		ID:          u.ID().String(),
		Email:       u.Email(),
		FullName:    u.FullName(),
		PrimaryRole: u.PrimaryRole().String(),
		IsAdmin:     u.IsAdmin(),
		LastLoginAt: u.LastLoginAt(),
		CreatedAt:   u.CreatedAt(),
	}
}

func runGetUsers(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	db, _ := mustDB()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := postgres.NewUserRepository(db)
	users, total, err := repo.List(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, toUserRow(u))
	}

	if flagOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tNAME\tROLE\tADMIN\tCREATED")
	for _, r := range rows {
		admin := ""
		if r.IsAdmin {
			admin = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Email, r.FullName, r.PrimaryRole, admin, r.CreatedAt.Format("2006-01-02"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nShowing %d of %d users (page %d)\n", len(rows), total, page)
	return nil
}

func runGrantAdmin(cmd *cobra.Command, args []string) error {
	email := args[0]

	db, _ := mustDB()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := postgres.NewUserRepository(db)
	u, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", email, err)
	}

	if u.IsAdmin() {
		fmt.Printf("%s is already an admin\n", email)
		return nil
	}

	u.GrantAdmin()
	if err := repo.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to update %s: %w", email, err)
	}

	fmt.Printf("Granted admin rights to %s\n", email)
	return nil
}

func runDeleteUser(cmd *cobra.Command, args []string) error {
	email := args[0]
	yes, _ := cmd.Flags().GetBool("yes")

	db, _ := mustDB()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := postgres.NewUserRepository(db)
	u, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", email, err)
	}

	if !yes {
		fmt.Printf("Delete account %s (%s)? [y/N]: ", u.Email(), u.FullName())
		var answer string
		if _, err := fmt.Scanln(&answer); err != nil || (answer != "y" && answer != "Y") {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := repo.Delete(ctx, u.ID()); err != nil {
		return fmt.Errorf("failed to delete %s: %w", email, err)
	}

	fmt.Printf("Deleted account %s\n", email)
	return nil
}
