package vehicles

import (
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	mdwerror "github.com/msto63/alarmview/foundation/core/error"
	"github.com/msto63/alarmview/foundation/core/log"
)

// DefaultFile is the vehicle file location relative to the executable.
const DefaultFile = "Config/IlsAnsbachNeaOperationViewerConfig.xml"

var (
	// ErrMissingFile is returned when the vehicle file does not exist.
	ErrMissingFile = mdwerror.New("vehicle configuration not found").WithCode(mdwerror.CodeMissingConfig)
	// ErrInvalid is returned for malformed or incomplete vehicle files.
	ErrInvalid = mdwerror.New("invalid vehicle configuration").WithCode(mdwerror.CodeInvalidConfig)
)

// document accepts any root element; only its Vehicles child is read.
type document struct {
	Vehicles *vehiclesElement `xml:"Vehicles"`
}

type vehiclesElement struct {
	MustContainAbbreviations *string          `xml:"MustContainAbbreviations,attr"`
	Vehicles                 []vehicleElement `xml:"Vehicle"`
}

type vehicleElement struct {
	Identifier *string `xml:"Identifier,attr"`
	Name       string  `xml:"Name,attr"`
	Image      *string `xml:"Image,attr"`
	Shortkey   string  `xml:"Shortkey,attr"`
}

// Options configures a Loader
type Options struct {
	// BaseDir resolves relative image paths. Defaults to the executable's directory.
	BaseDir string
	Logger  *log.Logger
}

// Loader reads vehicle files
type Loader struct {
	baseDir string
	logger  *log.Logger
}

// NewLoader creates a loader
func NewLoader(opts Options) *Loader {
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}
	if opts.BaseDir == "" {
		opts.BaseDir = ExecutableDir()
	}
	return &Loader{
		baseDir: opts.BaseDir,
		logger:  opts.Logger.WithField("component", "vehicles"),
	}
}

// ExecutableDir returns the directory of the running binary, or the working
// directory if it cannot be determined.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	wd, _ := os.Getwd()
	return wd
}

// BaseDir returns the directory image paths are resolved against
func (l *Loader) BaseDir() string {
	return l.baseDir
}

// DefaultPath returns DefaultFile under the base directory.
func (l *Loader) DefaultPath() string {
	return filepath.Join(l.baseDir, filepath.FromSlash(DefaultFile))
}

// LoadDefault loads DefaultPath.
func (l *Loader) LoadDefault() (*Configuration, error) {
	return l.Load(l.DefaultPath())
}

// Load reads the vehicle file at path. On any failure it returns a nil
// configuration.
func (l *Loader) Load(path string) (*Configuration, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.Wrapf(ErrMissingFile, "%s", path)
		}
		return nil, mdwerror.Wrapf(err, "open vehicle configuration %s", path).
			WithCode(mdwerror.CodeConfigError)
	}
	defer f.Close()

	cfg, err := l.Parse(f)
	if err != nil {
		return nil, mdwerror.Wrapf(err, "%s", path)
	}

	l.logger.Info("vehicle configuration loaded", log.Fields{
		"path":     path,
		"vehicles": len(cfg.Vehicles),
	})
	return cfg, nil
}

// Parse decodes a vehicle document from r.
func (l *Loader) Parse(r io.Reader) (*Configuration, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, mdwerror.Wrapf(ErrInvalid, "decode: %v", err)
	}
	if doc.Vehicles == nil {
		return nil, mdwerror.Wrapf(ErrInvalid, "missing Vehicles element")
	}
	if doc.Vehicles.MustContainAbbreviations == nil {
		return nil, mdwerror.Wrapf(ErrInvalid, "missing MustContainAbbreviations attribute")
	}

	cfg := &Configuration{
		MustContainAbbreviations: splitList(*doc.Vehicles.MustContainAbbreviations),
		Vehicles:                 make([]Vehicle, 0, len(doc.Vehicles.Vehicles)),
	}

	for i, ve := range doc.Vehicles.Vehicles {
		if ve.Identifier == nil || strings.TrimSpace(*ve.Identifier) == "" {
			return nil, mdwerror.Wrapf(ErrInvalid, "vehicle %d: missing Identifier", i+1)
		}
		if ve.Image == nil || strings.TrimSpace(*ve.Image) == "" {
			return nil, mdwerror.Wrapf(ErrInvalid, "vehicle %s: missing Image", *ve.Identifier)
		}

		v := Vehicle{
			Identifier: strings.TrimSpace(*ve.Identifier),
			Name:       strings.TrimSpace(ve.Name),
			Image:      l.resolve(*ve.Image),
			Shortkey:   ParseShortkey(ve.Shortkey),
		}
		if v.Shortkey.IsNone() && strings.TrimSpace(ve.Shortkey) != "" && !strings.EqualFold(strings.TrimSpace(ve.Shortkey), "none") {
			l.logger.Debug("vehicle shortkey not recognized", log.Fields{
				"vehicle":  v.Identifier,
				"shortkey": ve.Shortkey,
			})
		}
		cfg.Vehicles = append(cfg.Vehicles, v)
	}

	return cfg, nil
}

// resolve makes an image path absolute against the base directory. Windows
// separators in the file are accepted.
func (l *Loader) resolve(image string) string {
	p := filepath.FromSlash(strings.ReplaceAll(strings.TrimSpace(image), `\`, "/"))
	if !filepath.IsAbs(p) {
		p = filepath.Join(l.baseDir, p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load reads the vehicle file at path, resolving images against baseDir.
func Load(path, baseDir string) (*Configuration, error) {
	return NewLoader(Options{BaseDir: baseDir}).Load(path)
}

// LoadDefault reads DefaultFile next to the executable.
func LoadDefault() (*Configuration, error) {
	return NewLoader(Options{}).LoadDefault()
}
