//go:build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/Kargones/logwriter/internal/config"
)

//go:generate wire

// ProviderSet объединяет все провайдеры приложения.
// Используется в InitializeApp для построения графа зависимостей.
var ProviderSet = wire.NewSet(
	ProvideDiagnostics,
	ProvideRegistry,
	ProvideTraceID,
	ProvideMetricsCollector,
	ProvideTracerProvider,
	ProvideLoggers,
	wire.Struct(new(App), "*"),
)

// InitializeApp создаёт и инициализирует App через Wire DI.
// Принимает Config, загруженный через config.Load().
//
// Wire генерирует реализацию этой функции в wire_gen.go.
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	app, err := di.InitializeApp(cfg)
//	if err != nil {
//	    return err
//	}
//	defer app.Close(ctx)
func InitializeApp(cfg *config.Config) (*App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
