package infra

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pot-code/go-storefront/internal/infrastructure/validate"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix env prefix for viper
const EnvPrefix = "STOREFRONT"

// runtime environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// AppConfig App option object
type AppConfig struct {
	AppID          string        `mapstructure:"app_id" json:"app_id" validate:"required"`                   // Application ID
	Host           string        `mapstructure:"host" json:"host"`                                           // bind host address
	Port           int           `mapstructure:"port" json:"port" validate:"min=1,max=65535"`                // bind listen port
	Env            string        `mapstructure:"env" json:"env" validate:"oneof=development production"`     // runtime environment
	RequestTimeout time.Duration `mapstructure:"request_timeout" json:"request_timeout"`                     // abort requests running longer
	SessionTimeout time.Duration `mapstructure:"session_timeout" json:"session_timeout" validate:"required"` // JWT lifetime
	SessionRefresh time.Duration `mapstructure:"session_refresh" json:"session_refresh"`                     // session refresh threshold
	Database       struct {
		Driver   string `mapstructure:"driver" json:"driver" validate:"oneof=mysql postgres"`          // driver name
		Host     string `mapstructure:"host" json:"host" validate:"required"`                          // server host
		MaxConn  int32  `mapstructure:"maxconn" json:"maxconn" validate:"min=1"`                       // maximum opening connections number
		Password string `mapstructure:"password" json:"-" validate:"required"`                         // db password
		Port     int    `mapstructure:"port" json:"port"`                                              // server port
		Protocol string `mapstructure:"protocol" json:"protocol" validate:"omitempty,oneof=tcp udp"`   // connection protocol, eg.tcp
		Query    string `mapstructure:"query" json:"query"`                                            // DSN query parameter
		Schema   string `mapstructure:"schema" json:"schema" validate:"required"`                      // use schema
		User     string `mapstructure:"username" json:"username" validate:"required"`                  // db username
	} `mapstructure:"database" json:"database"`
	Logging struct {
		FilePath string `mapstructure:"file_path" json:"file_path"`                            // log file path
		Level    string `mapstructure:"level" json:"level" validate:"oneof=debug info warn error"` // global logging level
	} `mapstructure:"logging" json:"logging"`
	Security struct {
		IDLength         int           `mapstructure:"id_length" json:"id_length" validate:"min=8"` // length of generated ID for entities
		JWTMethod        string        `mapstructure:"jwt_method" json:"jwt_method" validate:"oneof=HS256 HS512"`
		JWTSecret        string        `mapstructure:"jwt_secret" json:"-" validate:"required"`
		TokenName        string        `mapstructure:"token_name" json:"token_name" validate:"required"`      // jwt token name set in cookie
		MaxLoginAttempts int           `mapstructure:"max_login_attempts" json:"max_login_attempts" validate:"min=1"`
		RetryTimeout     time.Duration `mapstructure:"retry_timeout" json:"retry_timeout"`                    // lock duration after too many attempts
		ResetTokenTTL    time.Duration `mapstructure:"reset_token_ttl" json:"reset_token_ttl" validate:"required"` // password reset link lifetime
	} `mapstructure:"security" json:"security"`
	KVStore struct {
		Host     string `mapstructure:"host" json:"host"`
		Port     int    `mapstructure:"port" json:"port"`
		Password string `mapstructure:"password" json:"-"`
	} `mapstructure:"kv" json:"kv"`
	Mail struct {
		Host     string `mapstructure:"host" json:"host"` // empty means mails are only logged
		Port     int    `mapstructure:"port" json:"port"`
		Username string `mapstructure:"username" json:"username"`
		Password string `mapstructure:"password" json:"-"`
		From     string `mapstructure:"from" json:"from" validate:"omitempty,email"`
		ResetURL string `mapstructure:"reset_url" json:"reset_url" validate:"required,url"` // reset token is appended
	} `mapstructure:"mail" json:"mail"`
	DevOP struct {
		APM bool `mapstructure:"apm" json:"apm"`
	} `mapstructure:"devop" json:"devop"`
}

// InitConfig init app config from command line and environment
func InitConfig() (*AppConfig, error) {
	return LoadConfig(os.Args[1:])
}

// LoadConfig parse args and STOREFRONT_* env vars into AppConfig, flags win
// over env vars
func LoadConfig(args []string) (*AppConfig, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config = new(AppConfig)
	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	if config.Logging.Level == "debug" {
		if configJSON, err := json.MarshalIndent(config, "", "  "); err == nil {
			log.Printf("App config: %s\n", string(configJSON))
		}
	}
	return config, nil
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("storefront", pflag.ContinueOnError)

	// app
	fs.String("host", "", "binding address")
	fs.String("app_id", "storefront", "application identifier")
	fs.String("env", EnvDevelopment, "runtime environment, can be 'development' or 'production'")
	fs.Int("port", 8081, "listening port")
	fs.Duration("request_timeout", 30*time.Second, "abort requests running longer than this")
	fs.Duration("session_timeout", 30*time.Minute, "JWT lifetime(m, s and h units are supported), eg.30m")
	fs.Duration("session_refresh", 5*time.Minute, "session refresh threshold(m, s and h units are supported), eg.5m")

	// database
	fs.String("database.driver", "mysql", "database driver to use, mysql or postgres")
	fs.String("database.host", "127.0.0.1", "database host")
	fs.Int("database.port", 3306, "database server port")
	fs.String("database.protocol", "", "connection protocol(if mysql is used, this flag must be set), eg.tcp")
	fs.String("database.username", "", "database username (required)")
	fs.String("database.password", "", "database password (required)")
	fs.String("database.schema", "", "database schema (required)")
	fs.String("database.query", "", `additional DSN query parameters('?' is auto prefixed), if you work with mysql and wish to
work with time.Time, you may specify "parseTime=true"`)
	fs.Int32("database.maxconn", 200, `max connection count, if you encounter a "too many connections" error, please consider
increasing the max_connection value of your db server, or lower this value`)

	// logging
	fs.String("logging.level", "info", "logging level")
	fs.String("logging.file_path", "", "log to file")

	// security
	fs.Int("security.id_length", 24, "set length of generated ID for entities")
	fs.String("security.jwt_method", "HS256", "hash algorithm used for JWT auth")
	fs.String("security.jwt_secret", "", "JWT secret (required)")
	fs.String("security.token_name", "storefront_session", "cookie name to store the token")
	fs.Int("security.max_login_attempts", 3, "maximum login attempts")
	fs.Duration("security.retry_timeout", 1*time.Hour, "retry wait")
	fs.Duration("security.reset_token_ttl", 30*time.Minute, "password reset link lifetime")

	// kv storage
	fs.String("kv.host", "127.0.0.1", "kv host")
	fs.Int("kv.port", 6379, "kv server port")
	fs.String("kv.password", "", "kv server password")

	// mail
	fs.String("mail.host", "", "SMTP host, mails are logged when empty")
	fs.Int("mail.port", 587, "SMTP port")
	fs.String("mail.username", "", "SMTP username")
	fs.String("mail.password", "", "SMTP password")
	fs.String("mail.from", "no-reply@storefront.local", "sender address")
	fs.String("mail.reset_url", "http://127.0.0.1:8080/reset-password/", "password reset page, the token is appended")

	// DevOp
	fs.Bool("devop.apm", false, "enable apm metrics")
	return fs
}

func validateConfig(config *AppConfig) error {
	errs := validate.NewValidator().Struct(config)
	if len(errs) == 0 {
		return nil
	}

	msg := make([]string, 0, len(errs))
	for _, fe := range errs {
		msg = append(msg, fmt.Sprintf("%s: %s", fe.Domain, fe.Reason))
	}
	return fmt.Errorf("failed to validate config: \n%s", strings.Join(msg, "\n"))
}
