// Command seed creates the schema if needed and loads a small development
// fixture: one back-office admin, two OMCs with catalogs and stations, a
// price override, pump topology, an attendant, a driver and one prepaid
// token (TXN-001) ready to redeem.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/fueldist/fuel-token-backend/internal/config"
	"github.com/fueldist/fuel-token-backend/internal/database"
	"github.com/fueldist/fuel-token-backend/internal/model"
	"github.com/fueldist/fuel-token-backend/internal/utils"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        email VARCHAR(255) NOT NULL UNIQUE,
        password_hash VARCHAR(255) NOT NULL,
        role ENUM('OMC_ADMIN','STATION_MANAGER','PUMP_ATTENDANT','DRIVER') NOT NULL,
        name VARCHAR(255) NULL,
        contact VARCHAR(32) NULL,
        national_id VARCHAR(64) NULL,
        gender VARCHAR(16) NULL,
        vehicle_count INT UNSIGNED NULL,
        company_name VARCHAR(255) NULL,
        region VARCHAR(128) NULL,
        district VARCHAR(128) NULL,
        omc_id BIGINT UNSIGNED NULL,
        station_id BIGINT UNSIGNED NULL,
        deleted_at DATETIME NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
    ) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        user_id BIGINT UNSIGNED NOT NULL,
        token_hash CHAR(64) NOT NULL UNIQUE,
        expires_at DATETIME NOT NULL,
        revoked_at DATETIME NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        KEY idx_refresh_user (user_id)
    ) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS omcs (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        name VARCHAR(255) NOT NULL UNIQUE,
        location VARCHAR(255) NULL,
        logo VARCHAR(512) NULL,
        contact_person VARCHAR(255) NULL,
        contact VARCHAR(32) NULL,
        email VARCHAR(255) NULL,
        deleted_at DATETIME NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
    ) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS stations (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        omc_id BIGINT UNSIGNED NOT NULL,
        name VARCHAR(255) NOT NULL,
        region VARCHAR(128) NULL,
        district VARCHAR(128) NULL,
        town VARCHAR(128) NULL,
        manager_name VARCHAR(255) NULL,
        manager_contact VARCHAR(32) NULL,
        deleted_at DATETIME NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        UNIQUE KEY uq_station_name (omc_id, name),
        CONSTRAINT fk_station_omc FOREIGN KEY (omc_id) REFERENCES omcs(id)
    ) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS product_catalogs (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        omc_id BIGINT UNSIGNED NOT NULL,
        name VARCHAR(128) NOT NULL,
        default_price DECIMAL(12,2) NOT NULL,
        deleted_at DATETIME NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        UNIQUE KEY uq_catalog_name (omc_id, name),
        CONSTRAINT fk_catalog_omc FOREIGN KEY (omc_id) REFERENCES omcs(id)
    ) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS station_product_prices (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        catalog_id BIGINT UNSIGNED NOT NULL,
        station_id BIGINT UNSIGNED NOT NULL,
        price DECIMAL(12,2) NOT NULL,
        effective_from DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        UNIQUE KEY uq_price_pair (catalog_id, station_id),
        CONSTRAINT fk_price_catalog FOREIGN KEY (catalog_id) REFERENCES product_catalogs(id),
        CONSTRAINT fk_price_station FOREIGN KEY (station_id) REFERENCES stations(id)
    ) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS dispensers (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        station_id BIGINT UNSIGNED NOT NULL,
        dispenser_number VARCHAR(64) NOT NULL,
        deleted_at DATETIME NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        UNIQUE KEY uq_dispenser_number (station_id, dispenser_number),
        CONSTRAINT fk_dispenser_station FOREIGN KEY (station_id) REFERENCES stations(id)
    ) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS pumps (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        dispenser_id BIGINT UNSIGNED NOT NULL,
        product_catalog_id BIGINT UNSIGNED NOT NULL,
        pump_number VARCHAR(64) NOT NULL,
        deleted_at DATETIME NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        UNIQUE KEY uq_pump_number (dispenser_id, pump_number),
        CONSTRAINT fk_pump_dispenser FOREIGN KEY (dispenser_id) REFERENCES dispensers(id),
        CONSTRAINT fk_pump_catalog FOREIGN KEY (product_catalog_id) REFERENCES product_catalogs(id)
    ) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS pump_attendants (
        pump_id BIGINT UNSIGNED NOT NULL,
        user_id BIGINT UNSIGNED NOT NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (pump_id, user_id),
        CONSTRAINT fk_pa_pump FOREIGN KEY (pump_id) REFERENCES pumps(id),
        CONSTRAINT fk_pa_user FOREIGN KEY (user_id) REFERENCES users(id)
    ) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS fuel_tokens (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        token VARCHAR(64) NOT NULL UNIQUE,
        driver_id BIGINT UNSIGNED NULL,
        amount DECIMAL(12,2) NULL,
        liters DECIMAL(12,3) NULL,
        status ENUM('UNUSED','USED') NOT NULL DEFAULT 'UNUSED',
        redeemed_at DATETIME NULL,
        mobile_number VARCHAR(32) NULL,
        station_id BIGINT UNSIGNED NULL,
        product_catalog_id BIGINT UNSIGNED NULL,
        dispenser_id BIGINT UNSIGNED NULL,
        pump_id BIGINT UNSIGNED NULL,
        pump_attendant_id BIGINT UNSIGNED NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        KEY idx_token_driver (driver_id),
        KEY idx_token_attendant (pump_attendant_id),
        KEY idx_token_station (station_id)
    ) ENGINE=InnoDB`,
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("schema: %v", err)
		}
	}
	log.Println("schema ready")

	s := seeder{ctx: ctx, db: db, cost: cfg.BcryptCost}

	omcA := s.omc("Alpha Energy", "Accra")
	omcB := s.omc("Beta Petroleum", "Kumasi")

	diesel := s.catalog(omcA, "Diesel", "25.00")
	petrol := s.catalog(omcA, "Petrol", "28.50")
	kerosene := s.catalog(omcA, "Kerosene", "24.80")
	s.catalog(omcB, "Diesel", "25.20")

	stationA := s.station(omcA, "Station A", "Greater Accra")
	stationB := s.station(omcA, "Station B", "Ashanti")

	// Station A sells diesel above the catalog default.
	s.override(diesel, stationA, "25.50")

	s.user("admin@fueldist.example", "admin1234", model.RoleOMCAdmin, &omcA, nil)
	s.user("manager.a@fueldist.example", "manager1234", model.RoleStationManager, &omcA, &stationA)
	attendant := s.user("attendant.a@fueldist.example", "attendant1234", model.RolePumpAttendant, &omcA, &stationA)
	driver := s.user("driver@fueldist.example", "driver1234", model.RoleDriver, nil, nil)

	dispA := s.dispenser(stationA, "DISP-001")
	dispB := s.dispenser(stationB, "DISP-002")
	pumpDiesel := s.pump(dispA, diesel, "PUMP-001A")
	s.pump(dispA, petrol, "PUMP-001B")
	s.pump(dispB, kerosene, "PUMP-002A")
	s.assign(pumpDiesel, attendant)

	// One prepaid token, bound to Station A, ready to redeem.  At the
	// 25.50 override the 1000.00 buys 39.216 liters.
	s.token("TXN-001", driver, "1000.00", stationA)

	log.Println("seed complete")
}

type seeder struct {
	ctx  context.Context
	db   *sql.DB
	cost int
}

func (s *seeder) exec(q string, args ...interface{}) uint64 {
	res, err := s.db.ExecContext(s.ctx, q, args...)
	if err != nil {
		log.Fatalf("seed: %v (query %q)", err, q)
	}
	id, _ := res.LastInsertId()
	return uint64(id)
}

// lookup returns the id of an existing row, or 0 when absent.
func (s *seeder) lookup(q string, args ...interface{}) uint64 {
	var id uint64
	err := s.db.QueryRowContext(s.ctx, q, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return 0
	}
	if err != nil {
		log.Fatalf("seed: %v (query %q)", err, q)
	}
	return id
}

func (s *seeder) omc(name, location string) uint64 {
	if id := s.lookup(`SELECT id FROM omcs WHERE name = ?`, name); id != 0 {
		return id
	}
	return s.exec(`INSERT INTO omcs (name, location) VALUES (?,?)`, name, location)
}

func (s *seeder) catalog(omcID uint64, name, price string) uint64 {
	if id := s.lookup(`SELECT id FROM product_catalogs WHERE omc_id = ? AND name = ?`, omcID, name); id != 0 {
		return id
	}
	return s.exec(`INSERT INTO product_catalogs (omc_id, name, default_price) VALUES (?,?,?)`,
		omcID, name, decimal.RequireFromString(price))
}

func (s *seeder) station(omcID uint64, name, region string) uint64 {
	if id := s.lookup(`SELECT id FROM stations WHERE omc_id = ? AND name = ?`, omcID, name); id != 0 {
		return id
	}
	return s.exec(`INSERT INTO stations (omc_id, name, region) VALUES (?,?,?)`, omcID, name, region)
}

func (s *seeder) override(catalogID, stationID uint64, price string) {
	s.exec(`INSERT INTO station_product_prices (catalog_id, station_id, price)
            VALUES (?,?,?) ON DUPLICATE KEY UPDATE price = VALUES(price)`,
		catalogID, stationID, decimal.RequireFromString(price))
}

func (s *seeder) user(email, password string, role model.Role, omcID, stationID *uint64) uint64 {
	if id := s.lookup(`SELECT id FROM users WHERE email = ?`, email); id != 0 {
		return id
	}
	hash, err := utils.HashPassword(password, s.cost)
	if err != nil {
		log.Fatalf("seed: hash password: %v", err)
	}
	return s.exec(`INSERT INTO users (email, password_hash, role, omc_id, station_id) VALUES (?,?,?,?,?)`,
		email, hash, role.String(), omcID, stationID)
}

func (s *seeder) dispenser(stationID uint64, number string) uint64 {
	if id := s.lookup(`SELECT id FROM dispensers WHERE station_id = ? AND dispenser_number = ?`,
		stationID, number); id != 0 {
		return id
	}
	return s.exec(`INSERT INTO dispensers (station_id, dispenser_number) VALUES (?,?)`, stationID, number)
}

func (s *seeder) pump(dispenserID, catalogID uint64, number string) uint64 {
	if id := s.lookup(`SELECT id FROM pumps WHERE dispenser_id = ? AND pump_number = ?`,
		dispenserID, number); id != 0 {
		return id
	}
	return s.exec(`INSERT INTO pumps (dispenser_id, product_catalog_id, pump_number) VALUES (?,?,?)`,
		dispenserID, catalogID, number)
}

func (s *seeder) assign(pumpID, userID uint64) {
	s.exec(`INSERT IGNORE INTO pump_attendants (pump_id, user_id) VALUES (?,?)`, pumpID, userID)
}

func (s *seeder) token(token string, driverID uint64, amount string, stationID uint64) {
	if id := s.lookup(`SELECT id FROM fuel_tokens WHERE token = ?`, token); id != 0 {
		return
	}
	s.exec(`INSERT INTO fuel_tokens (token, driver_id, amount, status, station_id) VALUES (?,?,?,?,?)`,
		token, driverID, decimal.RequireFromString(amount), string(model.TokenUnused), stationID)
}
