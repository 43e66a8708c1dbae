package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pot-code/go-storefront/internal/account"
	infra "github.com/pot-code/go-storefront/internal/infrastructure"
	"github.com/pot-code/go-storefront/internal/infrastructure/driver"
	"github.com/pot-code/go-storefront/internal/infrastructure/logging"
	"github.com/pot-code/go-storefront/internal/infrastructure/mail"
	"github.com/pot-code/go-storefront/internal/infrastructure/uuid"
	"github.com/pot-code/go-storefront/internal/interfaces/rest"
	"github.com/pot-code/go-storefront/internal/validation"
	"go.uber.org/zap"
)

// reset tokens are bearer secrets, keep them longer than entity ids
const resetTokenLength = 32

func main() {
	log.SetFlags(log.Lshortfile | log.Ldate | log.Ltime)
	option, err := infra.InitConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(&logging.Config{
		FilePath: option.Logging.FilePath,
		Level:    option.Logging.Level,
		AppID:    option.AppID,
		Env:      option.Env,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %s\n", err)
	}
	defer logger.Sync()

	dbConn, err := driver.GetDBConnection(&driver.DBConfig{
		User:     option.Database.User,
		Password: option.Database.Password,
		MaxConn:  option.Database.MaxConn,
		Protocol: option.Database.Protocol,
		Driver:   option.Database.Driver,
		Host:     option.Database.Host,
		Port:     option.Database.Port,
		Query:    option.Database.Query,
		Schema:   option.Database.Schema,
	})
	if err != nil {
		logger.Fatal("Failed to create DB connection", zap.Error(err))
	}
	defer dbConn.Close(context.Background())
	logger.Debug("Create DB connection instance", zap.String("db.driver", option.Database.Driver),
		zap.String("db.schema", option.Database.Schema),
		zap.String("db.host", option.Database.Host),
	)

	kv := driver.NewRedisClient(option.KVStore.Host, option.KVStore.Port, option.KVStore.Password)
	defer kv.Close()

	ids, err := uuid.NewNanoIDGenerator(option.Security.IDLength)
	if err != nil {
		logger.Fatal("Failed to create id generator", zap.Error(err))
	}
	tokens, err := uuid.NewNanoIDGenerator(resetTokenLength)
	if err != nil {
		logger.Fatal("Failed to create token generator", zap.Error(err))
	}

	var mailer mail.Mailer = mail.LogMailer{}
	if option.Mail.Host != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     option.Mail.Host,
			Port:     option.Mail.Port,
			Username: option.Mail.Username,
			Password: option.Mail.Password,
			From:     option.Mail.From,
		})
	} else {
		logger.Warn("mail.host is empty, mails are only logged")
	}

	UserRepo := account.NewSQLRepository(dbConn)
	UserUseCase := account.NewUseCase(UserRepo, kv, ids, tokens, mailer, account.Options{
		MaxLoginAttempts: option.Security.MaxLoginAttempts,
		RetryTimeout:     option.Security.RetryTimeout,
		ResetTokenTTL:    option.Security.ResetTokenTTL,
		ResetURL:         option.Mail.ResetURL,
	})

	app := rest.NewServer(&rest.Dependencies{
		DB:          dbConn,
		KV:          kv,
		UserUseCase: UserUseCase,
		Runner:      validation.NewRunner(validation.DefaultRegistry()),
		Config:      option,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rest.Serve(ctx, app, option, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
