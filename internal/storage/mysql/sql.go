package mysql

// One snapshot table per provider, identical canonical columns. Rows are
// append-only; there is no update path.
const createFaresTableSQL = `
CREATE TABLE IF NOT EXISTS %s (
  id             BIGINT AUTO_INCREMENT PRIMARY KEY,
  date_checked   VARCHAR(10)  NOT NULL,
  cruise_code    VARCHAR(16)  NOT NULL,
  cruise_name    VARCHAR(128) NOT NULL,
  ship_name      VARCHAR(64)  NOT NULL,
  departure_port VARCHAR(64)  NOT NULL,
  departure_date VARCHAR(10)  NOT NULL,
  duration       INT          NULL,
  cabin_type     VARCHAR(32)  NOT NULL,
  fare_type      VARCHAR(32)  NOT NULL,
  cabin_price    DOUBLE       NOT NULL,
  fixed_obc      DOUBLE       NOT NULL DEFAULT 0,
  bonus_obc      DOUBLE       NOT NULL DEFAULT 0,
  total_price    DOUBLE       NOT NULL,
  drinks_price   DOUBLE       NULL,
  KEY idx_cruise_date (cruise_code, date_checked)
)
`

const insertFaresPrefix = "INSERT INTO %s\n" +
	"  (date_checked, cruise_code, cruise_name, ship_name, departure_port,\n" +
	"   departure_date, duration, cabin_type, fare_type, cabin_price,\n" +
	"   fixed_obc, bonus_obc, total_price, drinks_price)\nVALUES "

const listFaresSQL = `
SELECT
  date_checked,
  cruise_code,
  cruise_name,
  ship_name,
  departure_port,
  departure_date,
  duration,
  cabin_type,
  fare_type,
  cabin_price,
  fixed_obc,
  bonus_obc,
  total_price,
  drinks_price
FROM %s
ORDER BY id
`
