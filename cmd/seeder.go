package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/category"
	budgetDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/budget"
	categoryDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/category"
	projectDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/finance-ops/internal/core/user"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users, categories, budgets and projects for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			clearSeededData(gdb)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		var financeHead int64
		for _, u := range seedUsers(string(hash)) {
			u := u
			res := gdb.Where(userDatamodel.User{Email: u.Email}).FirstOrCreate(&u)
			if res.Error != nil {
				log.Fatalf("failed to seed user %s: %v", u.Email, res.Error)
			}
			if res.RowsAffected == 0 {
				fmt.Println("user already exists:", u.Email)
			} else {
				fmt.Printf("Seeded user %s (grade %d, admin %t)\n", u.Email, u.Grade, u.IsAdmin)
			}
			if access.Grade(u.Grade) == access.GradeFinanceHead {
				financeHead = u.ID
			}
		}

		categories := []struct {
			Name string
			Desc string
		}{
			{"travel", "business travel and transport"},
			{"meals", "meals and entertainment"},
			{"office", "office supplies and equipment"},
			{"software", "software licenses and subscriptions"},
			{"training", "courses and certifications"},
			{"other", "miscellaneous"},
		}
		for _, c := range categories {
			row := category.ToDataModel(category.NewCategory(c.Name, c.Desc))
			if err := gdb.Where(categoryDatamodel.Category{Name: c.Name}).FirstOrCreate(row).Error; err != nil {
				log.Fatalf("failed to seed category %s: %v", c.Name, err)
			}
		}
		fmt.Println("Categories seeded successfully")

		year := time.Now().Year()
		for i, dept := range coreUser.Departments {
			allocated := decimal.NewFromInt(int64(500_000 + 100_000*i))
			// spread utilization so the alert thresholds are reachable
			spent := allocated.Mul(decimal.NewFromInt(int64(40 + 12*i))).Div(decimal.NewFromInt(100)).Round(2)
			row := budgetDatamodel.Budget{Department: dept, FiscalYear: year, BudgetAmount: allocated, SpentAmount: spent}
			if err := gdb.Where(budgetDatamodel.Budget{Department: dept, FiscalYear: year}).FirstOrCreate(&row).Error; err != nil {
				log.Fatalf("failed to seed budget for %s: %v", dept, err)
			}
		}
		fmt.Printf("Budgets for fiscal year %d seeded successfully\n", year)

		projects := []projectDatamodel.Project{
			{Name: "Ledger migration", Department: "Finance", Budget: decimal.NewFromInt(120_000), Status: "active"},
			{Name: "Quarterly campaign", Department: "Sales", Budget: decimal.NewFromInt(80_000), Status: "active"},
			{Name: "Forecast model", Department: "Data & AI", Budget: decimal.NewFromInt(150_000), Status: "on_hold"},
		}
		for _, p := range projects {
			p := p
			p.CreatedBy = financeHead
			if err := gdb.Where(projectDatamodel.Project{Name: p.Name}).FirstOrCreate(&p).Error; err != nil {
				log.Fatalf("failed to seed project %s: %v", p.Name, err)
			}
		}
		fmt.Println("Projects seeded successfully")
	},
}

func seedUsers(hash string) []userDatamodel.User {
	return []userDatamodel.User{
		{Email: "admin@mail.com", Name: "Platform Admin", PasswordHash: hash, IsAdmin: true},
		{Email: "head@mail.com", Name: "Finance Head", PasswordHash: hash, Grade: int(access.GradeFinanceHead), Department: "Finance"},
		{Email: "sales.manager@mail.com", Name: "Sales Manager", PasswordHash: hash, Grade: int(access.GradeManager), Department: "Sales"},
		{Email: "sales@mail.com", Name: "Sales Employee", PasswordHash: hash, Grade: int(access.GradeEmployee), Department: "Sales"},
		{Email: "hr@mail.com", Name: "HR Employee", PasswordHash: hash, Grade: int(access.GradeEmployee), Department: "HR"},
	}
}

func clearSeededData(db *gorm.DB) {
	for _, table := range []string{"audit_logs", "projects", "invoices", "transactions", "budgets", "categories", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("failed to clear %s: %v", table, err)
		}
		fmt.Println("Cleared table:", table)
	}
}
