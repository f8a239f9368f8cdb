package config

import (
	"errors"
	"fmt"
	"strings"

	"bombarena/pkg/ai"
	"bombarena/pkg/core"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName 配置文件名（不含扩展名），支持 yaml/toml/json
const FileName = "bombarena"

// EnvPrefix 环境变量前缀，例如 BOMBARENA_SIM_SEED
const EnvPrefix = "BOMBARENA"

// RunOptions 无界面运行参数
type RunOptions struct {
	Ticks         int64  // 0 表示一直运行到被取消
	Fast          bool   // 不限速
	Autopilot     bool   // 由自动驾驶产生输入
	Difficulty    string // 自动驾驶难度：normal / hard
	SnapshotPath  string // 快照流输出文件
	SnapshotEvery int    // 每隔多少帧写一次快照
	RecordPath    string // 输入录制文件
	ReplayPath    string // 输入回放文件
}

// ClientOptions 窗口客户端参数
type ClientOptions struct {
	Scale     float64
	Title     string
	Character string // white / black / red / blue
	Controls  string // wasd / arrows
}

// Options 全部配置
type Options struct {
	Sim       core.Config
	LogLevel  string
	LogFormat string
	Run       RunOptions
	Client    ClientOptions
}

func setDefaults() {
	d := core.DefaultConfig()

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")

	viper.SetDefault("arena.width", d.ArenaWidth)
	viper.SetDefault("arena.height", d.ArenaHeight)
	viper.SetDefault("arena.cell_size", d.CellSize)
	viper.SetDefault("arena.open_rows", d.OpenRows)
	viper.SetDefault("arena.prune_ratio", d.PruneRatio)
	viper.SetDefault("arena.break_duration", d.BreakDuration)
	viper.SetDefault("arena.item_burn_duration", d.ItemBurnDelay)

	viper.SetDefault("sim.frame_rate", d.FrameRate)
	viper.SetDefault("sim.seed", d.Seed)

	viper.SetDefault("bomb.fuse", d.FuseDuration)
	viper.SetDefault("bomb.explosion_visible", d.ExplosionDuration)
	viper.SetDefault("bomb.range", d.ExplosionRange)
	viper.SetDefault("bomb.capacity", d.BombCapacity)

	viper.SetDefault("player.speed", d.MoveSpeed)
	viper.SetDefault("player.speed_step", d.SpeedStep)
	viper.SetDefault("player.radius", d.PlayerRadius)
	viper.SetDefault("player.corner_tolerance", d.CornerTolerance)
	viper.SetDefault("player.corner_slide", d.CornerSlide)
	viper.SetDefault("player.death_reset", d.DeathResetWait)

	viper.SetDefault("kick.speed", d.KickSpeed)
	viper.SetDefault("kick.delay", d.KickDelay)

	viper.SetDefault("throw.speed", d.ThrowSpeed)
	viper.SetDefault("throw.bounce_speed", d.BounceSpeed)
	viper.SetDefault("throw.arc_cells", d.ThrowArcCells)
	viper.SetDefault("throw.landing_threshold", d.LandingThreshold)
	viper.SetDefault("throw.wrap_grace", d.WrapGrace)
	viper.SetDefault("throw.windup", d.ThrowWindup)

	viper.SetDefault("run.ticks", 0)
	viper.SetDefault("run.fast", false)
	viper.SetDefault("run.autopilot", true)
	viper.SetDefault("run.difficulty", "normal")
	viper.SetDefault("run.snapshot_path", "")
	viper.SetDefault("run.snapshot_every", 1)
	viper.SetDefault("run.record_path", "")
	viper.SetDefault("run.replay_path", "")

	viper.SetDefault("client.scale", 1.0)
	viper.SetDefault("client.title", "Bomb Arena")
	viper.SetDefault("client.character", "white")
	viper.SetDefault("client.controls", "wasd")
}

// flagKeys 命令行参数名 -> 配置键
var flagKeys = map[string]string{
	"log-level":      "log.level",
	"log-format":     "log.format",
	"seed":           "sim.seed",
	"frame-rate":     "sim.frame_rate",
	"width":          "arena.width",
	"height":         "arena.height",
	"ticks":          "run.ticks",
	"fast":           "run.fast",
	"autopilot":      "run.autopilot",
	"difficulty":     "run.difficulty",
	"snapshots":      "run.snapshot_path",
	"snapshot-every": "run.snapshot_every",
	"record":         "run.record_path",
	"replay":         "run.replay_path",
	"scale":          "client.scale",
	"character":      "client.character",
	"controls":       "client.controls",
}

// RegisterFlags 注册命令行参数（默认值取自内置默认配置）
func RegisterFlags(fs *pflag.FlagSet) {
	d := core.DefaultConfig()
	fs.String("config", "", "directory containing "+FileName+".{yaml,toml,json}")
	fs.String("log-level", "info", "log level: trace, debug, info, warn, error")
	fs.String("log-format", "console", "log format: console or json")
	fs.Int64("seed", d.Seed, "random seed for arena layout and powerups")
	fs.Int("frame-rate", d.FrameRate, "simulation ticks per second")
	fs.Int("width", d.ArenaWidth, "arena width in cells")
	fs.Int("height", d.ArenaHeight, "arena height in cells")
	fs.Int64("ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	fs.Bool("fast", false, "run as fast as possible instead of pacing at the frame rate")
	fs.Bool("autopilot", true, "drive the player with the autopilot")
	fs.String("difficulty", "normal", "autopilot difficulty: normal or hard")
	fs.String("snapshots", "", "write a length-prefixed snapshot stream to this file")
	fs.Int("snapshot-every", 1, "write one snapshot every N ticks")
	fs.String("record", "", "record inputs to this file")
	fs.String("replay", "", "replay inputs from this file")
	fs.Float64("scale", 1.0, "client window scale")
	fs.String("character", "white", "client character: white, black, red, blue")
	fs.String("controls", "wasd", "client controls: wasd (space acts) or arrows (enter acts)")
}

// BindFlags 把已注册且存在的命令行参数绑定到配置键
func BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Load 读取配置：默认值 < 配置文件 < 环境变量 < 命令行参数
// configDir 为空时不读配置文件
func Load(configDir string) (*Options, error) {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configDir != "" {
		viper.SetConfigName(FileName)
		viper.AddConfigPath(configDir)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	opts := &Options{
		Sim:       simConfig(),
		LogLevel:  viper.GetString("log.level"),
		LogFormat: viper.GetString("log.format"),
		Run: RunOptions{
			Ticks:         viper.GetInt64("run.ticks"),
			Fast:          viper.GetBool("run.fast"),
			Autopilot:     viper.GetBool("run.autopilot"),
			Difficulty:    viper.GetString("run.difficulty"),
			SnapshotPath:  viper.GetString("run.snapshot_path"),
			SnapshotEvery: viper.GetInt("run.snapshot_every"),
			RecordPath:    viper.GetString("run.record_path"),
			ReplayPath:    viper.GetString("run.replay_path"),
		},
		Client: ClientOptions{
			Scale:     viper.GetFloat64("client.scale"),
			Title:     viper.GetString("client.title"),
			Character: viper.GetString("client.character"),
			Controls:  viper.GetString("client.controls"),
		},
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// simConfig 读取模拟参数；给了地图模板时宽高取自模板
func simConfig() core.Config {
	cfg := core.Config{
		ArenaWidth:     viper.GetInt("arena.width"),
		ArenaHeight:    viper.GetInt("arena.height"),
		CellSize:       viper.GetFloat64("arena.cell_size"),
		OpenRows:       viper.GetIntSlice("arena.open_rows"),
		PruneRatio:     viper.GetFloat64("arena.prune_ratio"),
		BreakDuration:  viper.GetDuration("arena.break_duration"),
		ItemBurnDelay:  viper.GetDuration("arena.item_burn_duration"),
		Seed:           viper.GetInt64("sim.seed"),
		FrameRate:      viper.GetInt("sim.frame_rate"),
		DeathResetWait: viper.GetDuration("player.death_reset"),

		FuseDuration:      viper.GetDuration("bomb.fuse"),
		ExplosionDuration: viper.GetDuration("bomb.explosion_visible"),
		ExplosionRange:    viper.GetInt("bomb.range"),
		BombCapacity:      viper.GetInt("bomb.capacity"),

		MoveSpeed:       viper.GetFloat64("player.speed"),
		SpeedStep:       viper.GetFloat64("player.speed_step"),
		PlayerRadius:    viper.GetFloat64("player.radius"),
		CornerTolerance: viper.GetFloat64("player.corner_tolerance"),
		CornerSlide:     viper.GetFloat64("player.corner_slide"),

		KickSpeed: viper.GetFloat64("kick.speed"),
		KickDelay: viper.GetDuration("kick.delay"),

		ThrowSpeed:       viper.GetFloat64("throw.speed"),
		BounceSpeed:      viper.GetFloat64("throw.bounce_speed"),
		ThrowArcCells:    viper.GetInt("throw.arc_cells"),
		LandingThreshold: viper.GetFloat64("throw.landing_threshold"),
		WrapGrace:        viper.GetDuration("throw.wrap_grace"),
		ThrowWindup:      viper.GetDuration("throw.windup"),
	}
	if tmpl := viper.GetStringSlice("arena.template"); len(tmpl) > 0 {
		cfg.Template = tmpl
		cfg.ArenaHeight = len(cfg.Template)
		cfg.ArenaWidth = len(cfg.Template[0])
		cfg.OpenRows = nil
	}
	return cfg
}

// ErrInvalidOptions 运行参数非法
var ErrInvalidOptions = errors.New("invalid options")

// Validate 检查模拟参数和运行参数
func (o *Options) Validate() error {
	if err := o.Sim.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	switch strings.ToLower(o.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidOptions, o.LogFormat)
	}
	if _, err := ai.ConfigFor(o.Run.Difficulty); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if o.Run.Ticks < 0 {
		return fmt.Errorf("%w: ticks must not be negative", ErrInvalidOptions)
	}
	if o.Run.SnapshotEvery < 1 {
		return fmt.Errorf("%w: snapshot_every must be at least 1", ErrInvalidOptions)
	}
	if o.Run.RecordPath != "" && o.Run.ReplayPath != "" {
		return fmt.Errorf("%w: record and replay are mutually exclusive", ErrInvalidOptions)
	}
	if o.Client.Scale <= 0 {
		return fmt.Errorf("%w: client scale must be positive", ErrInvalidOptions)
	}
	return nil
}
