package config

import (
	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ChainConfig 链配置
// Fundify 合约是唯一的外部协作方，服务端只读事件，不发起任何合约写入。
type ChainConfig struct {
	Enabled         bool   `mapstructure:"enabled"`          // 是否启用链上事件镜像
	RpcUrl          string `mapstructure:"rpc_url"`          // RPC节点URL
	ContractAddress string `mapstructure:"contract_address"` // Fundify合约地址
	StartBlock      int64  `mapstructure:"start_block"`      // 合约部署区块号
	Confirmations   int64  `mapstructure:"confirmations"`    // 确认区块数
}

// SyncConfig 同步任务配置
type SyncConfig struct {
	Interval  int `mapstructure:"interval"`   // 同步间隔（秒）
	BatchSize int `mapstructure:"batch_size"` // 单次扫描的区块数量
	PoolSize  int `mapstructure:"pool_size"`  // 事件处理协程池大小
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/fundify")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "fundify")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("chain.enabled", false)
	viper.SetDefault("chain.contract_address", "0x700b6A60ce7EaaEA56F065753d8dcB9653dbAD35")
	viper.SetDefault("chain.start_block", 0)
	viper.SetDefault("chain.confirmations", 12)
	viper.SetDefault("sync.interval", 60)
	viper.SetDefault("sync.batch_size", 2000)
	viper.SetDefault("sync.pool_size", 4)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
