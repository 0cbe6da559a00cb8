// Package seed carga los datos de demostración de la clínica en cualquier
// backend que implemente los repositorios del dominio.
package seed

import (
	"context"
	"fmt"
	"time"

	"laikavet/internal/domain/appointments"
	"laikavet/internal/domain/catalog"
	"laikavet/internal/domain/orders"
	"laikavet/internal/domain/patients"
	"laikavet/internal/domain/pricing"
	"laikavet/internal/domain/sales"
	"laikavet/internal/domain/users"

	"github.com/shopspring/decimal"
)

// Targets son los repositorios a poblar. Los nil se saltean.
type Targets struct {
	Users        users.Repository
	Patients     patients.Repository
	Products     catalog.Repository
	Appointments appointments.Repository
	Orders       orders.Repository
	Sales        sales.Repository
}

// Credentials de las cuentas demo (email -> contraseña).
var Credentials = map[string]string{
	"admin@laikavet.com": "admin123",
	"sarah@laikavet.com": "vet123",
	"cliente@email.com":  "cliente123",
}

// Load inserta el dataset demo. now fija CreatedAt.
func Load(ctx context.Context, t Targets, now time.Time) error {
	if t.Users != nil {
		for _, u := range Users(now) {
			hash, err := users.HashPassword(Credentials[u.Email])
			if err != nil {
				return fmt.Errorf("seed: hash %s: %w", u.Email, err)
			}
			u.PasswordHash = hash
			if err := t.Users.Insert(ctx, u); err != nil {
				return fmt.Errorf("seed: user %s: %w", u.ID, err)
			}
		}
	}
	if t.Patients != nil {
		for _, p := range Patients(now) {
			if err := t.Patients.Insert(ctx, p); err != nil {
				return fmt.Errorf("seed: patient %s: %w", p.ID, err)
			}
		}
	}
	if t.Products != nil {
		for _, p := range Products(now) {
			if err := t.Products.Insert(ctx, p); err != nil {
				return fmt.Errorf("seed: product %s: %w", p.ID, err)
			}
		}
	}
	if t.Appointments != nil {
		for _, a := range Appointments(now) {
			if err := t.Appointments.Insert(ctx, a); err != nil {
				return fmt.Errorf("seed: appointment %s: %w", a.ID, err)
			}
		}
	}
	if t.Orders != nil {
		for _, o := range Orders(now) {
			if err := t.Orders.Insert(ctx, o); err != nil {
				return fmt.Errorf("seed: order %s: %w", o.ID, err)
			}
		}
	}
	if t.Sales != nil {
		for _, s := range Sales(now) {
			if err := t.Sales.Insert(ctx, s); err != nil {
				return fmt.Errorf("seed: sale %s: %w", s.ID, err)
			}
		}
	}
	return nil
}

// Users no incluye hashes; Load los calcula.
func Users(now time.Time) []users.User {
	return []users.User{
		{ID: "1", Name: "Admin User", Email: "admin@laikavet.com", Role: users.RoleAdmin, Avatar: "https://i.pravatar.cc/150?u=admin", CreatedAt: now},
		{ID: "2", Name: "Dr. Sarah Smith", Email: "sarah@laikavet.com", Role: users.RoleVeterinarian, Avatar: "https://i.pravatar.cc/150?u=sarah", CreatedAt: now},
		{ID: "3", Name: "Client User", Email: "cliente@email.com", Role: users.RoleClient, Avatar: "https://i.pravatar.cc/150?u=client", CreatedAt: now},
	}
}

func Patients(now time.Time) []patients.Patient {
	maxDog := patients.Patient{
		ID: "1", Name: "Max", Species: patients.SpeciesDog, Breed: "Golden Retriever", Age: 5, Weight: 32, Color: "Golden",
		Owner: patients.Owner{Name: "John Doe", Phone: "555-0123", Email: "john@example.com", Address: "123 Main St"},
		History: []patients.HistoryEntry{{
			ID: "h1", Date: "2023-10-15", Reason: "Annual Vaccination", Diagnosis: "Healthy",
			Treatment: "Rabies vaccine administered", VetID: "2", CreatedAt: now,
		}},
	}
	out := []patients.Patient{
		maxDog,
		{ID: "2", Name: "Luna", Species: patients.SpeciesCat, Breed: "Siamese", Age: 2, Weight: 4, Color: "Cream/Brown",
			Owner: patients.Owner{Name: "Jane Smith", Phone: "555-0456", Email: "jane@example.com", Address: "456 Oak Ave"}},
		{ID: "3", Name: "Rocky", Species: patients.SpeciesDog, Breed: "Bulldog", Age: 3, Weight: 25, Color: "White/Brown",
			Owner: patients.Owner{Name: "Mike Johnson", Phone: "555-0789", Email: "mike@example.com", Address: "789 Pine Ln"}},
		{ID: "4", Name: "Bella", Species: patients.SpeciesCat, Breed: "Persian", Age: 4, Weight: 5, Color: "White",
			Owner: patients.Owner{Name: "Emily Davis", Phone: "555-1011", Email: "emily@example.com", Address: "101 Maple Dr"}},
		{ID: "5", Name: "Charlie", Species: patients.SpeciesDog, Breed: "Beagle", Age: 1, Weight: 10, Color: "Tricolor",
			Owner: patients.Owner{Name: "Chris Wilson", Phone: "555-1213", Email: "chris@example.com", Address: "202 Birch Rd"}},
	}
	for i := range out {
		out[i].CreatedAt = now
		out[i].UpdatedAt = now
		if out[i].History == nil {
			out[i].History = []patients.HistoryEntry{}
		}
	}
	return out
}

func Products(now time.Time) []catalog.Product {
	const img = "https://images.unsplash.com/photo-%s?auto=format&fit=crop&w=300&q=80"
	out := []catalog.Product{
		{ID: "1", Name: "Premium Dog Food", Category: catalog.CategoryFood, Price: money("45.99"), Stock: 50, Brand: "Royal Canin",
			Image: fmt.Sprintf(img, "1568640347023-a616a30bc3bd"), Description: "High quality food for adult dogs."},
		{ID: "2", Name: "Cat Toy Set", Category: catalog.CategoryAccessories, Price: money("12.50"), Stock: 15, Brand: "PetFun",
			Image: fmt.Sprintf(img, "1545249390-6bdfa286032f"), Description: "Interactive toys for cats."},
		{ID: "3", Name: "Flea Collar", Category: catalog.CategoryMedicines, Price: money("25.00"), Stock: 5, Brand: "Bayer",
			Image: fmt.Sprintf(img, "1601758228041-f3b2795255f1"), Description: "Long lasting flea protection."},
		{ID: "4", Name: "Dog Leash", Category: catalog.CategoryAccessories, Price: money("18.00"), Stock: 30, Brand: "Flexi",
			Image: fmt.Sprintf(img, "1576201836106-db1758fd1c97"), Description: "Retractable dog leash."},
		{ID: "5", Name: "Cat Food", Category: catalog.CategoryFood, Price: money("30.00"), Stock: 40, Brand: "Whiskas",
			Image: fmt.Sprintf(img, "1589924691195-41432c84c161"), Description: "Delicious food for cats."},
	}
	for i := range out {
		out[i].CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		out[i].UpdatedAt = out[i].CreatedAt
	}
	return out
}

func Appointments(now time.Time) []appointments.Appointment {
	return []appointments.Appointment{
		{ID: "1", PatientID: "1", VetID: "2", Date: "2025-12-02", Time: "10:00", Type: appointments.TypeConsulta,
			Status: appointments.StatusConfirmed, CreatedAt: now, UpdatedAt: now},
		{ID: "2", PatientID: "2", VetID: "2", Date: "2025-12-02", Time: "11:30", Type: appointments.TypeVacunacion,
			Status: appointments.StatusPending, CreatedAt: now, UpdatedAt: now},
	}
}

// Orders pertenecen al cliente demo (id 3). Los totales se recalculan con IVA.
func Orders(now time.Time) []orders.Order {
	mk := func(id, date string, status orders.Status, items ...orders.Item) orders.Order {
		subtotal := decimal.Zero
		for _, it := range items {
			subtotal = subtotal.Add(pricing.LineTotal(it.Price, it.Quantity))
		}
		sum := pricing.Summarize(subtotal)
		return orders.Order{
			ID: id, UserID: "3", Date: date, Status: status, Items: items,
			Subtotal: sum.Subtotal, Tax: sum.Tax, Total: sum.Total, CreatedAt: now,
		}
	}
	return []orders.Order{
		mk("ord-001", "2025-11-20", orders.StatusDelivered,
			orders.Item{ProductID: "1", Name: "Premium Dog Food", Quantity: 1, Price: money("45.99")},
			orders.Item{ProductID: "2", Name: "Cat Toy Set", Quantity: 1, Price: money("12.50")}),
		mk("ord-002", "2025-11-28", orders.StatusShipped,
			orders.Item{ProductID: "3", Name: "Flea Collar", Quantity: 1, Price: money("25.00")}),
		mk("ord-003", "2025-12-01", orders.StatusPending,
			orders.Item{ProductID: "4", Name: "Dog Leash", Quantity: 1, Price: money("18.00")}),
	}
}

func Sales(now time.Time) []sales.Sale {
	mk := func(id, date, hhmm, client string, items ...sales.Item) sales.Sale {
		total := decimal.Zero
		for _, it := range items {
			total = total.Add(pricing.LineTotal(it.Price, it.Quantity))
		}
		return sales.Sale{
			ID: id, Date: date, Time: hhmm, Channel: sales.ChannelInStore, Client: client,
			Items: items, Total: total, CreatedAt: now,
		}
	}
	svc := func(id, name, price string) sales.Item {
		return sales.Item{ID: id, Name: name, Quantity: 1, Price: money(price), Category: sales.ItemService}
	}
	prod := func(id, name, price string) sales.Item {
		return sales.Item{ID: id, Name: name, Quantity: 1, Price: money(price), Category: sales.ItemProduct}
	}
	return []sales.Sale{
		mk("sale-001", "2025-11-25", "09:30", "Juan Pérez", svc("1", "Consulta General", "30.00"), prod("5", "Cat Food", "30.00")),
		mk("sale-002", "2025-11-26", "14:15", "Maria Garcia", svc("2", "Vacunación", "45.00")),
		mk("sale-003", "2025-11-27", "11:00", "Anonimo", prod("2", "Cat Toy Set", "12.50")),
		mk("sale-004", "2025-11-29", "16:45", "Carlos Lopez", prod("1", "Premium Dog Food", "45.99"), svc("3", "Limpieza Dental", "40.00")),
		mk("sale-005", "2025-12-01", "10:00", "Ana Martinez", prod("3", "Flea Collar", "25.00")),
	}
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
