package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load configuration from a .webshift.kdl file in dir.
// A missing file is not an error; the caller falls back to defaults.
func LoadKDL(dir string) (*Config, error) {
	kdlPath := filepath.Join(dir, ".webshift.kdl")

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .webshift.kdl: %v", err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	// Resolve the project root relative to the directory holding the config
	// so invoking the tool from elsewhere still finds the right tree.
	if cfg.Project.Root != "" {
		if !filepath.IsAbs(cfg.Project.Root) {
			cfg.Project.Root = filepath.Join(dir, cfg.Project.Root)
		}
		cfg.Project.Root = filepath.Clean(cfg.Project.Root)
	} else {
		absRoot, err := filepath.Abs(dir)
		if err != nil {
			absRoot = dir
		}
		cfg.Project.Root = absRoot
	}

	return cfg, nil
}

func parseKDL(content string) (*Config, error) {
	cfg := DefaultConfig()
	if cwd, err := os.Getwd(); err == nil {
		cfg.Project.Root = cwd
	}

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "scan":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_file_count":
					if v, ok := firstIntArg(cn); ok {
						cfg.Scan.MaxFileCount = v
					}
				case "max_depth":
					if v, ok := firstIntArg(cn); ok {
						cfg.Scan.MaxDepth = v
					}
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Scan.MaxFileSize = int64(v)
					}
					if s, ok := firstStringArg(cn); ok {
						if sz, err := parseSize(s); err == nil {
							cfg.Scan.MaxFileSize = sz
						}
					}
				case "follow_symlinks":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Scan.FollowSymlinks = b
					}
				case "respect_gitignore":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Scan.RespectGitignore = b
					}
				case "workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Scan.Workers = v
					}
				case "watch_debounce_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Scan.WatchDebounceMs = v
					}
				}
			}
		case "frameworks_file":
			if s, ok := firstStringArg(n); ok {
				cfg.FrameworksFile = s
			}
		case "include":
			cfg.Include = append(cfg.Include, collectStringArgs(n)...)
		case "exclude":
			// An explicit exclude block replaces the defaults entirely.
			cfg.Exclude = collectStringArgs(n)
		}
	}

	return cfg, nil
}

// Helper functions leveraging the kdl-go document model.
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// Block format: exclude { "pattern"; "other" } — strings arrive as child
	// nodes whose name is the string value.
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB"
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	numStr := s

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	}

	var n int64
	if _, err := fmt.Sscanf(strings.TrimSpace(numStr), "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n * multiplier, nil
}
