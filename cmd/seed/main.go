// seed puebla la base de datos con datos de prueba: dos empresas, un usuario
// por rol en cada una y productos en los tres estados del flujo de aprobación.
//
// Uso: go run ./cmd/seed
// Es idempotente: si la empresa ya existe se omite completa.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/baisoft/marketplace-api/internal/domain/entity"
	"github.com/baisoft/marketplace-api/internal/infrastructure/postgres"
	"github.com/baisoft/marketplace-api/pkg/config"
	"github.com/baisoft/marketplace-api/pkg/logger"
)

// Password común para todos los usuarios de prueba.
const seedPassword = "testpass123"

type seedBusiness struct {
	name        string
	description string
	products    []seedProduct
}

type seedProduct struct {
	name   string
	price  string
	status string
}

var seedData = []seedBusiness{
	{
		name:        "Tienda Andina",
		description: "Artesanías y café de origen",
		products: []seedProduct{
			{name: "Café de origen 500g", price: "32000.00", status: entity.StatusApproved},
			{name: "Mochila wayuu", price: "185000.00", status: entity.StatusApproved},
			{name: "Sombrero vueltiao", price: "95000.00", status: entity.StatusPendingApproval},
			{name: "Hamaca artesanal", price: "210000.00", status: entity.StatusDraft},
		},
	},
	{
		name:        "ElectroHogar",
		description: "Electrodomésticos y tecnología",
		products: []seedProduct{
			{name: "Licuadora 600W", price: "159900.00", status: entity.StatusApproved},
			{name: "Ventilador de torre", price: "249900.00", status: entity.StatusPendingApproval},
			{name: "Freidora de aire 4L", price: "329900.00", status: entity.StatusDraft},
		},
	},
}

var seedRoles = []string{entity.RoleAdmin, entity.RoleEditor, entity.RoleApprover, entity.RoleViewer}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	businessRepo := postgres.NewBusinessRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("generar hash de password")
	}

	for i, sb := range seedData {
		existing, err := businessRepo.GetByName(ctx, sb.name)
		if err != nil {
			log.Fatal().Err(err).Str("business", sb.name).Msg("consultar empresa")
		}
		if existing != nil {
			log.Info().Str("business", sb.name).Msg("empresa ya existe, se omite")
			continue
		}

		now := time.Now().UTC()
		business := &entity.Business{
			Name:        sb.name,
			Description: sb.description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := businessRepo.Create(ctx, business); err != nil {
			log.Fatal().Err(err).Str("business", sb.name).Msg("crear empresa")
		}

		users := make(map[string]*entity.User, len(seedRoles))
		for _, role := range seedRoles {
			u := &entity.User{
				BusinessID:   business.ID,
				Username:     fmt.Sprintf("%s%d", role, i+1),
				Email:        fmt.Sprintf("%s%d@example.com", role, i+1),
				PasswordHash: string(hash),
				Role:         role,
				IsActive:     true,
				DateJoined:   now,
				UpdatedAt:    now,
			}
			if err := userRepo.Create(ctx, u); err != nil {
				log.Fatal().Err(err).Str("username", u.Username).Msg("crear usuario")
			}
			users[role] = u
		}

		editor := users[entity.RoleEditor]
		approver := users[entity.RoleApprover]
		for _, sp := range seedData[i].products {
			price, err := decimal.NewFromString(sp.price)
			if err != nil {
				log.Fatal().Err(err).Str("product", sp.name).Msg("precio inválido")
			}
			p := &entity.Product{
				BusinessID:  business.ID,
				Name:        sp.name,
				Description: "Producto de prueba de " + sb.name,
				Price:       price,
				Status:      sp.status,
				CreatedByID: editor.ID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if sp.status == entity.StatusApproved {
				// Se inserta como pending y se aprueba por el flujo normal
				// para que queden los sellos de auditoría.
				p.Status = entity.StatusPendingApproval
			}
			if err := productRepo.Create(ctx, p); err != nil {
				log.Fatal().Err(err).Str("product", sp.name).Msg("crear producto")
			}
			if sp.status == entity.StatusApproved {
				if err := p.Approve(approver.ID, time.Now().UTC()); err != nil {
					log.Fatal().Err(err).Str("product", sp.name).Msg("aprobar producto")
				}
				if err := productRepo.Update(ctx, p); err != nil {
					log.Fatal().Err(err).Str("product", sp.name).Msg("guardar aprobación")
				}
			}
		}

		log.Info().
			Str("business", sb.name).
			Int64("business_id", business.ID).
			Int("users", len(users)).
			Int("products", len(sb.products)).
			Msg("empresa sembrada")
	}

	log.Info().Str("password", seedPassword).Msg("seed completado")
}
