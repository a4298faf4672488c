// Package constants содержит константы приложения logwriter: имена,
// переменные окружения и значения по умолчанию.
package constants

// Имя приложения.
const (
	// AppName - имя приложения и бинарника
	AppName = "logwriter"
	// DefaultLoggerName - имя логгера, если в конфигурации не задано
	DefaultLoggerName = "root"
)

// Version - версия приложения. Подставляется при сборке:
//
//	go build -ldflags "-X github.com/Kargones/logwriter/internal/constants.Version=1.2.3"
var Version = "dev"

// Переменные окружения приложения.
const (
	// EnvConfig - путь к YAML файлу конфигурации
	EnvConfig = "LOGWRITER_CONFIG"
	// EnvLevel - уровень логгеров (имя или число)
	EnvLevel = "LOGWRITER_LEVEL"
	// EnvFilename - файл логов основного логгера
	EnvFilename = "LOGWRITER_FILENAME"
	// EnvStdout - вывод основного логгера в консоль
	EnvStdout = "LOGWRITER_STDOUT"
	// EnvWatch - следить за файлом конфигурации и применять уровень на лету
	EnvWatch = "LOGWRITER_WATCH"
	// EnvMetricsEnabled - включение метрик
	EnvMetricsEnabled = "LOGWRITER_METRICS_ENABLED"
	// EnvPushgatewayURL - адрес Prometheus Pushgateway
	EnvPushgatewayURL = "LOGWRITER_PUSHGATEWAY_URL"
	// EnvTracingEnabled - включение трейсинга
	EnvTracingEnabled = "LOGWRITER_TRACING_ENABLED"
	// EnvTracingEndpoint - OTLP HTTP endpoint
	EnvTracingEndpoint = "LOGWRITER_TRACING_ENDPOINT"
	// EnvOutputFormat - формат вывода результатов CLI (text, json)
	EnvOutputFormat = "LOGWRITER_OUTPUT_FORMAT"
)

// Команды CLI.
const (
	// CmdEmit - записать сообщение через настроенный логгер
	CmdEmit = "emit"
	// CmdDecode - определить кодировку файлов
	CmdDecode = "decode"
	// CmdVersion - вывести версию
	CmdVersion = "version"
)

// Коды завершения CLI.
const (
	// ExitOK - успешное завершение
	ExitOK = 0
	// ExitError - ошибка выполнения команды
	ExitError = 1
	// ExitUndecodable - хотя бы один файл не удалось декодировать
	ExitUndecodable = 2
)
