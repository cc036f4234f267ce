package db

import (
	"context"
	"fmt"
)

// Tables lists every table owned by the service, in creation order.
var Tables = []string{
	"users", "listings", "tools", "questions", "answers",
	"market_prices", "mandi_prices", "farmer_listings", "buyer_requirements",
}

var ddl = []string{`
CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(50) NOT NULL,
	username VARCHAR(30) NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(20) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(30) NOT NULL,
	state VARCHAR(100) NOT NULL DEFAULT '',
	district VARCHAR(100) NOT NULL DEFAULT '',
	village VARCHAR(100) NOT NULL DEFAULT '',
	farm_size VARCHAR(50) NOT NULL DEFAULT '',
	crop_types TEXT NULL,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	last_login DATETIME NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_users_email (email),
	UNIQUE KEY uniq_users_username (username)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, `
CREATE TABLE IF NOT EXISTS listings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	seller_id BIGINT NOT NULL,
	crop_type VARCHAR(100) NOT NULL,
	variety VARCHAR(100) NOT NULL DEFAULT '',
	category VARCHAR(20) NOT NULL DEFAULT 'crop',
	quantity DECIMAL(14,3) NOT NULL,
	unit VARCHAR(10) NOT NULL DEFAULT 'kg',
	quality VARCHAR(10) NOT NULL,
	expected_price DECIMAL(14,2) NOT NULL,
	negotiable TINYINT(1) NOT NULL DEFAULT 1,
	description TEXT NULL,
	harvest_date DATETIME NULL,
	state VARCHAR(100) NOT NULL,
	district VARCHAR(100) NOT NULL,
	village VARCHAR(100) NOT NULL,
	images TEXT NULL,
	status VARCHAR(10) NOT NULL DEFAULT 'active',
	views BIGINT NOT NULL DEFAULT 0,
	contact_count BIGINT NOT NULL DEFAULT 0,
	expiry_date DATETIME NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_listings_status_created (status, created_at),
	KEY idx_listings_seller (seller_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, `
CREATE TABLE IF NOT EXISTS tools (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	owner_id BIGINT NOT NULL,
	tool_name VARCHAR(100) NOT NULL,
	category VARCHAR(20) NOT NULL,
	tool_type VARCHAR(10) NOT NULL,
	price DECIMAL(14,2) NOT NULL,
	price_unit VARCHAR(10) NOT NULL DEFAULT 'per_day',
	description TEXT NULL,
	images TEXT NULL,
	tool_condition VARCHAR(10) NOT NULL,
	availability TINYINT(1) NOT NULL DEFAULT 1,
	state VARCHAR(100) NOT NULL,
	district VARCHAR(100) NOT NULL,
	village VARCHAR(100) NOT NULL,
	brand VARCHAR(100) NOT NULL DEFAULT '',
	model VARCHAR(100) NOT NULL DEFAULT '',
	year INT NOT NULL DEFAULT 0,
	power VARCHAR(50) NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_tools_owner (owner_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, `
CREATE TABLE IF NOT EXISTS questions (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	author_id BIGINT NOT NULL,
	title VARCHAR(200) NOT NULL,
	body TEXT NOT NULL,
	category VARCHAR(30) NOT NULL DEFAULT 'general',
	tags TEXT NULL,
	votes BIGINT NOT NULL DEFAULT 0,
	views BIGINT NOT NULL DEFAULT 0,
	answers_count BIGINT NOT NULL DEFAULT 0,
	is_resolved TINYINT(1) NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_questions_category_created (category, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, `
CREATE TABLE IF NOT EXISTS answers (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	question_id BIGINT NOT NULL,
	author_id BIGINT NOT NULL,
	content TEXT NOT NULL,
	votes BIGINT NOT NULL DEFAULT 0,
	is_accepted TINYINT(1) NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_answers_question (question_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, `
CREATE TABLE IF NOT EXISTS market_prices (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	crop VARCHAR(100) NOT NULL,
	variety VARCHAR(100) NOT NULL DEFAULT '',
	market VARCHAR(150) NOT NULL,
	state VARCHAR(100) NOT NULL,
	district VARCHAR(100) NOT NULL,
	min_price DECIMAL(14,2) NOT NULL,
	max_price DECIMAL(14,2) NOT NULL,
	modal_price DECIMAL(14,2) NOT NULL,
	unit VARCHAR(30) NOT NULL DEFAULT 'per quintal',
	price_date DATETIME NOT NULL,
	source VARCHAR(50) NOT NULL DEFAULT 'manual',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_market_prices_crop_date (crop, price_date),
	KEY idx_market_prices_region_date (state, district, price_date)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, `
CREATE TABLE IF NOT EXISTS mandi_prices (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	mandi_name VARCHAR(150) NOT NULL,
	location VARCHAR(150) NOT NULL DEFAULT '',
	crop VARCHAR(100) NOT NULL,
	grade VARCHAR(30) NOT NULL DEFAULT '',
	unit VARCHAR(30) NOT NULL DEFAULT 'kg',
	min_price DECIMAL(14,2) NOT NULL DEFAULT 0,
	max_price DECIMAL(14,2) NOT NULL DEFAULT 0,
	modal_price DECIMAL(14,2) NOT NULL DEFAULT 0,
	price_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, `
CREATE TABLE IF NOT EXISTS farmer_listings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	seller_name VARCHAR(100) NOT NULL DEFAULT '',
	crop VARCHAR(100) NOT NULL,
	grade VARCHAR(30) NOT NULL DEFAULT '',
	quantity DECIMAL(14,3) NOT NULL,
	unit VARCHAR(30) NOT NULL DEFAULT 'kg',
	price_per_unit DECIMAL(14,2) NOT NULL,
	description TEXT NULL,
	status VARCHAR(10) NOT NULL DEFAULT 'ACTIVE',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, `
CREATE TABLE IF NOT EXISTS buyer_requirements (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	buyer_name VARCHAR(100) NOT NULL DEFAULT '',
	crop VARCHAR(100) NOT NULL,
	grade VARCHAR(30) NOT NULL DEFAULT '',
	min_qty DECIMAL(14,3) NOT NULL,
	unit VARCHAR(30) NOT NULL DEFAULT 'kg',
	max_price_per_unit DECIMAL(14,2) NOT NULL,
	notes TEXT NULL,
	status VARCHAR(10) NOT NULL DEFAULT 'OPEN',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}

// EnsureSchema creates missing tables. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, q Querier) error {
	for i, stmt := range ddl {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table %s: %w", Tables[i], err)
		}
	}
	return nil
}
