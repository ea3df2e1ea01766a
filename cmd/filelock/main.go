package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/absfs/filelock"
)

const version = "1.0.0"

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "filelock: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	r := &runner{stdin: stdin}

	app := cli.NewApp()
	app.Name = "filelock"
	app.Usage = "Protect files with a password and extract them again"
	app.Version = version
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = getFlags()
	app.Commands = []cli.Command{
		{
			Name:      "protect",
			Usage:     "write a password-protected copy of each FILE",
			ArgsUsage: "FILE...",
			Flags: []cli.Flag{
				passwordFlag(),
				cli.BoolFlag{
					Name:  "force, f",
					Usage: "replace the folder's password record if it belongs to a different password",
				},
			},
			Action: r.protect,
		},
		{
			Name:      "extract",
			Usage:     "restore the original of each protected FILE",
			ArgsUsage: "FILE...",
			Flags:     []cli.Flag{passwordFlag()},
			Action:    r.extract,
		},
		{
			Name:      "check-password",
			Usage:     "check whether a password is strong enough",
			ArgsUsage: "[PASSWORD]",
			Action:    r.checkPassword,
		},
	}
	return app
}

func getFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load configuration from `FILE`",
		},
		cli.StringFlag{
			Name:  "level, l",
			Usage: "logging level [debug|info|warn|error]",
			Value: "warn",
		},
		cli.StringFlag{
			Name:  "cipher",
			Usage: "cipher for new protected files [auto|aes-256-gcm|chacha20-poly1305]",
		},
		cli.BoolFlag{
			Name:  "no-clobber, n",
			Usage: "refuse to overwrite existing output files",
		},
	}
}

func passwordFlag() cli.Flag {
	return cli.StringFlag{
		Name:   "password, p",
		Usage:  "use `PASSWORD` instead of prompting for it",
		EnvVar: "FILELOCK_PASSWORD",
	}
}

type runner struct {
	stdin io.Reader
}

// session is the state shared by one command invocation.
type session struct {
	config *Config
	log    *log.Logger
	prompt *prompter
	out    io.Writer
}

func (r *runner) session(c *cli.Context) (*session, error) {
	config, err := NewConfig(c.GlobalString("config"))
	if err != nil {
		return nil, err
	}
	if c.GlobalIsSet("level") {
		level, err := GetLogLevel(c.GlobalString("level"))
		if err != nil {
			return nil, err
		}
		config.LogLevel = level
	}
	if c.GlobalIsSet("cipher") {
		suite, err := filelock.ParseCipherSuite(c.GlobalString("cipher"))
		if err != nil {
			return nil, err
		}
		config.Lock.Cipher = suite
	}
	if c.GlobalBool("no-clobber") {
		config.Lock.NoClobber = true
	}

	logger := NewLogger(config.LogLevel, c.App.ErrWriter)
	config.Lock.Logger = logger

	return &session{
		config: config,
		log:    logger,
		prompt: newPrompter(r.stdin, c.App.ErrWriter),
		out:    c.App.Writer,
	}, nil
}

// password returns the password given on the command line or asks for it.
// With confirm set a prompted password must be strong and typed twice.
func (s *session) password(c *cli.Context, confirm bool) (string, error) {
	if pw := c.String("password"); pw != "" {
		return pw, nil
	}

	pw, err := s.prompt.Password("Password: ")
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}
	if !confirm {
		return pw, nil
	}

	if err := filelock.CheckPasswordStrength(pw); err != nil {
		return "", s.fail("", err)
	}
	again, err := s.prompt.Password("Confirm password: ")
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}
	if err := filelock.ConfirmPassword(pw, again); err != nil {
		return "", s.fail("", err)
	}
	return pw, nil
}

// fail logs the details of err and returns the user-facing message for it.
func (s *session) fail(path string, err error) error {
	entry := s.log.WithError(err)
	if path != "" {
		entry = entry.WithField("path", path)
	}
	entry.Debug("operation failed")

	kind := filelock.KindOf(err)
	msg := kind.Message()
	if kind == filelock.KindUnknown {
		msg = err.Error()
	}
	if path == "" {
		return errors.New(msg)
	}
	return errors.Errorf("%s: %s", path, msg)
}

func (r *runner) protect(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("protect requires at least one FILE")
	}
	s, err := r.session(c)
	if err != nil {
		return err
	}

	password, err := s.password(c, true)
	if err != nil {
		return err
	}

	if c.Bool("force") {
		s.config.Lock.ConfirmVaultOverwrite = func(string) bool { return true }
	} else {
		s.config.Lock.ConfirmVaultOverwrite = func(dir string) bool {
			return s.prompt.Confirm(fmt.Sprintf(
				"%s already has a password for other files; they can no longer be extracted if it is replaced. Replace it?", dir))
		}
	}

	locker, err := filelock.New(filelock.OSFileSystem{}, s.config.Lock)
	if err != nil {
		return err
	}

	for _, path := range c.Args() {
		dst, err := locker.Protect(path, password)
		if err != nil {
			return s.fail(path, err)
		}
		fmt.Fprintf(s.out, "protected %s -> %s%s\n", path, dst, sizeOf(dst))
	}
	return nil
}

func (r *runner) extract(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("extract requires at least one FILE")
	}
	s, err := r.session(c)
	if err != nil {
		return err
	}

	password, err := s.password(c, false)
	if err != nil {
		return err
	}

	locker, err := filelock.New(filelock.OSFileSystem{}, s.config.Lock)
	if err != nil {
		return err
	}

	for _, path := range c.Args() {
		dst, err := locker.Extract(path, password)
		if err != nil {
			return s.fail(path, err)
		}
		fmt.Fprintf(s.out, "extracted %s -> %s%s\n", path, dst, sizeOf(dst))
	}
	return nil
}

func (r *runner) checkPassword(c *cli.Context) error {
	s, err := r.session(c)
	if err != nil {
		return err
	}

	password := c.Args().First()
	if password == "" {
		if password, err = s.prompt.Password("Password: "); err != nil {
			return errors.Wrap(err, "failed to read password")
		}
	}

	if err := filelock.CheckPasswordStrength(password); err != nil {
		return s.fail("", err)
	}
	fmt.Fprintln(s.out, "password is strong enough")
	return nil
}

func sizeOf(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return " (" + humanize.Bytes(uint64(info.Size())) + ")"
}
