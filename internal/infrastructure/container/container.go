// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go/aws/session"
	"go.uber.org/fx"
	"go.uber.org/zap"

	appanalysis "github.com/shelfie/shelfie/internal/application/analysis"
	"github.com/shelfie/shelfie/internal/application/capability"
	"github.com/shelfie/shelfie/internal/application/history"
	"github.com/shelfie/shelfie/internal/infrastructure/ai/gemini"
	"github.com/shelfie/shelfie/internal/infrastructure/ai/openai"
	"github.com/shelfie/shelfie/internal/infrastructure/awsclient"
	"github.com/shelfie/shelfie/internal/infrastructure/config"
	"github.com/shelfie/shelfie/internal/infrastructure/http/apiserver"
	"github.com/shelfie/shelfie/internal/infrastructure/monitoring"
	"github.com/shelfie/shelfie/internal/infrastructure/persistence"
	gormRepo "github.com/shelfie/shelfie/internal/infrastructure/persistence/gorm"
	"github.com/shelfie/shelfie/internal/infrastructure/persistence/memory"
	redisStore "github.com/shelfie/shelfie/internal/infrastructure/persistence/redis"
	"github.com/shelfie/shelfie/internal/infrastructure/speech"
	"github.com/shelfie/shelfie/internal/infrastructure/translate"
	"github.com/shelfie/shelfie/internal/infrastructure/vision"
	"github.com/shelfie/shelfie/internal/ports/inbound"
	"github.com/shelfie/shelfie/internal/ports/outbound"
	"github.com/shelfie/shelfie/pkg/healthcheck"
	"github.com/shelfie/shelfie/pkg/logger"
)

// CoreModule provides everything the pipelines need, without the HTTP server
var CoreModule = fx.Options(
	LoggerModule,
	ObservabilityModule,
	CapabilityModule,
	ServiceModule,
)

// Module provides all dependency injection modules for the API server
var Module = fx.Options(
	CoreModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration loaded from path, or from the default
// search locations when path is empty
func ConfigModule(path string) fx.Option {
	return fx.Provide(
		func() (*config.Config, error) {
			return config.Load(path)
		},
	)
}

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
			OutputPaths: cfg.App.LogOutputs,
		})
	},
)

// ObservabilityModule provides metrics, tracing and dependency health checks
var ObservabilityModule = fx.Options(
	fx.Provide(
		monitoring.NewMetricsCollector,
		newTracingProvider,
		func(cfg *config.Config, log *zap.Logger) *healthcheck.HealthCheck {
			return healthcheck.New(cfg.App.Version, log)
		},
	),
	// installs the global tracer provider even though nothing depends on it
	fx.Invoke(func(*monitoring.TracingProvider) {}),
)

func newTracingProvider(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
	tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
		SamplingRate:   cfg.Monitoring.SamplingRate,
		Enabled:        cfg.Monitoring.EnableTracing,
	}, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: tp.Shutdown})
	return tp, nil
}

// CapabilityModule resolves every optional capability once, at startup.
// A backend that cannot be built leaves its adapter unavailable; only the
// generative model is mandatory.
var CapabilityModule = fx.Provide(
	newHTTPClient,
	newAWSSession,
	NewGenerativeModel,
	NewDetector,
	NewTranslator,
	NewNarrator,
	NewAnalyticsSink,
	NewHistoryStore,
	NewStatus,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(store outbound.HistoryStore, cfg *config.Config, log *zap.Logger) *history.Service {
		return history.NewService(store, cfg.History.Limit, log)
	},
	func(model outbound.GenerativeModel, cfg *config.Config, metrics *monitoring.MetricsCollector, log *zap.Logger) *appanalysis.Generator {
		return appanalysis.NewGenerator(model, cfg.AI.Timeout, metrics, log)
	},
	NewMealService,
	func(svc *appanalysis.Service) inbound.MealService {
		return svc
	},
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	apiserver.NewAPIServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// awsSession is nil when no AWS backend is selected or no credentials resolve
type awsSession struct {
	sess *session.Session
}

func newHTTPClient() *http.Client {
	// every call carries its own context deadline
	return &http.Client{}
}

func newAWSSession(cfg *config.Config, log *zap.Logger) awsSession {
	needed := (cfg.Vision.Enabled && cfg.Vision.Backend == "rekognition") ||
		(cfg.Translate.Enabled && cfg.Translate.Backend == "aws") ||
		(cfg.Speech.CloudEnabled && cfg.Speech.Backend == "polly")
	if !needed {
		return awsSession{}
	}

	sess, err := awsclient.NewSession(cfg.AWS)
	if err != nil {
		log.Warn("AWS session unavailable, AWS backends disabled", zap.Error(err))
		return awsSession{}
	}
	return awsSession{sess: sess}
}

// NewGenerativeModel builds the configured provider
func NewGenerativeModel(cfg *config.Config, httpClient *http.Client, log *zap.Logger) (outbound.GenerativeModel, error) {
	switch cfg.AI.Provider {
	case gemini.ProviderName, "":
		client, err := gemini.NewClient(gemini.Config{
			APIKey:      cfg.AI.GeminiKey,
			Model:       cfg.AI.GeminiModel,
			BaseURL:     cfg.AI.GeminiBaseURL,
			MaxTokens:   cfg.AI.MaxTokens,
			Temperature: cfg.AI.Temperature,
		}, httpClient, log)
		if err != nil {
			return nil, fmt.Errorf("gemini provider: %w", err)
		}
		return client, nil
	case openai.ProviderName:
		client, err := openai.NewClient(openai.Config{
			APIKey:      cfg.AI.OpenAIKey,
			Model:       cfg.AI.OpenAIModel,
			BaseURL:     cfg.AI.OpenAIBaseURL,
			MaxTokens:   cfg.AI.MaxTokens,
			Temperature: cfg.AI.Temperature,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("openai provider: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.AI.Provider)
	}
}

// NewDetector builds the detector over the configured vision backend
func NewDetector(cfg *config.Config, httpClient *http.Client, aws awsSession, metrics *monitoring.MetricsCollector, log *zap.Logger) *capability.Detector {
	var annotator outbound.VisionAnnotator
	if cfg.Vision.Enabled {
		switch cfg.Vision.Backend {
		case "rekognition":
			if aws.sess != nil {
				annotator = vision.NewRekognitionClient(aws.sess, cfg.Vision.MaxResults)
			}
		default:
			client, err := vision.NewGoogleClient(cfg.Vision.GoogleKey, cfg.Vision.Endpoint, cfg.Vision.MaxResults, httpClient)
			if err != nil {
				log.Warn("Vision backend unavailable", zap.Error(err))
			} else {
				annotator = client
			}
		}
	}
	return capability.NewDetector(annotator, cfg.Vision.MinLabelScore, cfg.Vision.Timeout, log, metrics)
}

// NewTranslator builds the translator over the configured backend
func NewTranslator(cfg *config.Config, httpClient *http.Client, aws awsSession, metrics *monitoring.MetricsCollector, log *zap.Logger) *capability.Translator {
	var client outbound.TextTranslator
	if cfg.Translate.Enabled {
		switch cfg.Translate.Backend {
		case "aws":
			if aws.sess != nil {
				client = translate.NewAWSClient(aws.sess)
			}
		default:
			google, err := translate.NewGoogleClient(cfg.Translate.GoogleKey, cfg.Translate.Endpoint, httpClient)
			if err != nil {
				log.Warn("Translation backend unavailable", zap.Error(err))
			} else {
				client = google
			}
		}
	}
	return capability.NewTranslator(client, cfg.Translate.Timeout, log, metrics)
}

// NewNarrator builds the speech chain: cloud, then local, then console
func NewNarrator(cfg *config.Config, httpClient *http.Client, aws awsSession, metrics *monitoring.MetricsCollector, log *zap.Logger) *capability.Narrator {
	var cloud, local outbound.SpeechStrategy

	if cfg.Speech.CloudEnabled {
		var synth outbound.SpeechSynthesizer
		switch cfg.Speech.Backend {
		case "polly":
			if aws.sess != nil {
				synth = speech.NewPollySynthesizer(aws.sess, cfg.Speech.PollyVoice)
			}
		default:
			google, err := speech.NewGoogleSynthesizer(cfg.Speech.GoogleKey, cfg.Speech.Endpoint, httpClient)
			if err != nil {
				log.Warn("Cloud speech backend unavailable", zap.Error(err))
			} else {
				synth = google
			}
		}
		if synth != nil {
			player, err := speech.DetectPlayer(cfg.Speech.Player)
			if err != nil {
				log.Warn("No audio player, cloud speech disabled", zap.Error(err))
			} else {
				cloud = speech.NewCloudStrategy(synth, player, "")
			}
		}
	}

	if cfg.Speech.LocalEnabled {
		engine, err := speech.DetectLocalStrategy(cfg.Speech.LocalCommand)
		if err != nil {
			log.Info("Local speech engine not found", zap.Error(err))
		} else {
			local = engine
		}
	}

	console := speech.NewConsoleStrategy(os.Stdout, log)
	chain := capability.BuildSpeechChain(cloud, local, console)
	return capability.NewNarrator(chain, cfg.Speech.Timeout, log, metrics)
}

// NewAnalyticsSink opens the analytics database when enabled
func NewAnalyticsSink(lc fx.Lifecycle, cfg *config.Config, health *healthcheck.HealthCheck, metrics *monitoring.MetricsCollector, log *zap.Logger) *capability.AnalyticsSink {
	var repo outbound.AnalyticsRepository
	if cfg.Analytics.Enabled {
		db, err := persistence.OpenAnalyticsDB(context.Background(), cfg.Analytics, log)
		if err != nil {
			log.Warn("Analytics database unavailable, persistence disabled",
				zap.String("driver", cfg.Analytics.Driver),
				zap.Error(err))
		} else {
			analytics := gormRepo.NewAnalyticsRepository(db, log)
			repo = analytics
			// analytics is optional, so an outage only degrades health
			health.Register("analytics", healthcheck.NewPingChecker(analytics.Ping, true))
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					sqlDB, err := db.DB()
					if err != nil {
						return nil
					}
					return sqlDB.Close()
				},
			})
		}
	}
	return capability.NewAnalyticsSink(repo, cfg.Analytics.Driver, cfg.Analytics.Timeout, log, metrics)
}

// NewHistoryStore selects the history backend, falling back to memory
func NewHistoryStore(lc fx.Lifecycle, cfg *config.Config, health *healthcheck.HealthCheck, log *zap.Logger) outbound.HistoryStore {
	if cfg.History.Backend != "redis" {
		return memory.NewHistoryStore()
	}

	client, err := redisStore.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory history", zap.Error(err))
		return memory.NewHistoryStore()
	}
	health.Register("redis", healthcheck.NewRedisChecker(client, true))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return redisStore.NewHistoryStore(client, cfg.History.KeyPrefix, log)
}

// NewStatus snapshots capability availability and publishes it as gauges
func NewStatus(
	cfg *config.Config,
	model outbound.GenerativeModel,
	detector *capability.Detector,
	translator *capability.Translator,
	narrator *capability.Narrator,
	sink *capability.AnalyticsSink,
	metrics *monitoring.MetricsCollector,
	log *zap.Logger,
) capability.Status {
	modelName := cfg.AI.GeminiModel
	if model.Name() == openai.ProviderName {
		modelName = cfg.AI.OpenAIModel
	}

	status := capability.NewStatus(model.Name(), modelName, detector, translator, narrator, sink)
	for name, available := range status.Flags() {
		metrics.SetCapability(name, available)
	}

	log.Info("Capabilities resolved",
		zap.String("provider", status.GenerativeProvider),
		zap.String("model", status.GenerativeModel),
		zap.Bool("detector", status.Detector),
		zap.Bool("translator", status.Translator),
		zap.Strings("speech_chain", status.SpeechChain),
		zap.Bool("analytics", status.Analytics),
	)
	return status
}

// MealServiceParams groups the service inputs
type MealServiceParams struct {
	fx.In

	Generator  *appanalysis.Generator
	Detector   *capability.Detector
	Translator *capability.Translator
	Narrator   *capability.Narrator
	Sink       *capability.AnalyticsSink
	History    *history.Service
	Status     capability.Status
	Metrics    *monitoring.MetricsCollector
	Logger     *zap.Logger
}

// NewMealService creates the analysis service
func NewMealService(p MealServiceParams) *appanalysis.Service {
	return appanalysis.NewService(appanalysis.Dependencies{
		Generator:  p.Generator,
		Detector:   p.Detector,
		Translator: p.Translator,
		Narrator:   p.Narrator,
		Sink:       p.Sink,
		History:    p.History,
		Status:     p.Status,
		Metrics:    p.Metrics,
		Logger:     p.Logger,
	})
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	server *apiserver.APIServer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Shelfie",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil {
					log.Error("HTTP server failed", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Shelfie")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			// Flush logs
			_ = log.Sync()

			return nil
		},
	})
}
