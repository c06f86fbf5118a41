package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	Backup BackupConfig
	SlowOp SlowOpConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración del almacén SQLite embebido.
type DBConfig struct {
	Path string // ruta del archivo de base de datos
}

// BackupConfig configuración del coordinador de respaldos.
type BackupConfig struct {
	Dir       string        // directorio destino de snapshots
	Retention int           // snapshots a conservar en la poda
	Interval  time.Duration // cadencia del ciclo programado (modo schedule)
}

// SlowOpConfig configuración del monitor de operaciones lentas.
type SlowOpConfig struct {
	Threshold time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_PATH, BACKUP_DIR, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventario-core"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Path: getString(v, "DB_PATH", "billing_inventory.db"),
		},
		Backup: BackupConfig{
			Dir:       getString(v, "BACKUP_DIR", "backups"),
			Retention: getInt(v, "BACKUP_RETENTION", 2),
			Interval:  time.Duration(getInt(v, "BACKUP_INTERVAL_HOURS", 168)) * time.Hour,
		},
		SlowOp: SlowOpConfig{
			Threshold: time.Duration(getInt(v, "SLOW_OP_THRESHOLD_MS", 50)) * time.Millisecond,
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
