package plan

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	// ModernizationDir is the plans directory relative to the repository root,
	// in slash form.
	ModernizationDir = ".github/modernization"

	// PlanFileName is the plan document inside a plan folder.
	PlanFileName = "plan.md"

	// GitignoreFileName is the ignore file kept in ModernizationDir.
	GitignoreFileName = ".gitignore"
)

// GitignorePatterns are the entries EnsureGitignore keeps in
// ModernizationDir/.gitignore. Progress notes and the ignore file itself
// stay out of version control.
var GitignorePatterns = []string{"**/*progress.md", ".gitignore"}

// planFolderPattern matches plan folder names and captures the number.
var planFolderPattern = regexp.MustCompile(`^([0-9]{3})-`)

// Plan is a newly created plan.
type Plan struct {
	// Number is the plan sequence number.
	Number int

	// Branch is the branch name, also used as the folder name.
	Branch Branch

	// Folder is the plan folder relative to the repository root, in slash
	// form, e.g. ".github/modernization/001-upgrade".
	Folder string

	// Dir is the absolute path of the plan folder.
	Dir string
}

// Workspace is a repository root that holds modernization plans.
type Workspace struct {
	// Root is the repository root directory.
	Root string
}

// NewWorkspace returns a Workspace rooted at root.
func NewWorkspace(root string) *Workspace {
	return &Workspace{Root: root}
}

// Dir returns the absolute modernization directory.
func (w *Workspace) Dir() string {
	return filepath.Join(w.Root, filepath.FromSlash(ModernizationDir))
}

// planFolder is a plan folder found on disk.
type planFolder struct {
	name   string
	number int
}

// folders lists the plan folders in the modernization directory.
// A missing directory yields no folders.
func (w *Workspace) folders() ([]planFolder, error) {
	entries, err := os.ReadDir(w.Dir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", ModernizationDir, err)
	}

	var folders []planFolder
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m := planFolderPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		folders = append(folders, planFolder{name: e.Name(), number: n})
	}
	return folders, nil
}

// NextNumber returns the highest existing plan number plus one, or 1 when
// there are no plans.
func (w *Workspace) NextNumber() (int, error) {
	folders, err := w.folders()
	if err != nil {
		return 0, err
	}

	highest := 0
	for _, f := range folders {
		highest = max(highest, f.number)
	}
	return highest + 1, nil
}

// Create creates the folder of a new plan named after shortName.
// It returns ErrShortNameRequired when shortName is blank.
func (w *Workspace) Create(shortName string) (*Plan, error) {
	if strings.TrimSpace(shortName) == "" {
		return nil, ErrShortNameRequired
	}

	if err := os.MkdirAll(w.Dir(), 0750); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", ModernizationDir, err)
	}

	number, err := w.NextNumber()
	if err != nil {
		return nil, err
	}

	branch := BranchName(number, shortName)
	dir := filepath.Join(w.Dir(), branch.Name)
	if err := os.Mkdir(dir, 0750); err != nil && !errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("failed to create plan folder: %w", err)
	}

	return &Plan{
		Number: number,
		Branch: branch,
		Folder: path.Join(ModernizationDir, branch.Name),
		Dir:    dir,
	}, nil
}

// EnsureGitignore makes sure ModernizationDir/.gitignore lists every
// GitignorePatterns entry. Missing entries are appended; existing content
// is kept. The modernization directory must exist.
func (w *Workspace) EnsureGitignore() error {
	p := filepath.Join(w.Dir(), GitignoreFileName)

	content, err := os.ReadFile(p) //nolint:gosec // path is inside the workspace
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", GitignoreFileName, err)
	}

	present := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		present[strings.TrimSpace(scanner.Text())] = true
	}

	var missing []string
	for _, pattern := range GitignorePatterns {
		if !present[pattern] {
			missing = append(missing, pattern)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var buf strings.Builder
	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		buf.WriteString("\n")
	}
	for _, pattern := range missing {
		buf.WriteString(pattern + "\n")
	}

	f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) //nolint:gosec // path is inside the workspace
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", GitignoreFileName, err)
	}
	if _, err := f.WriteString(buf.String()); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("failed to update %s: %w", GitignoreFileName, err)
	}
	return f.Close()
}

// Latest returns the plan.md of the highest-numbered plan folder that has
// one, relative to the repository root in slash form.
//
// When the modernization directory exists, its .gitignore is updated first.
// Returns ErrNoPlan when no plan.md is found.
func (w *Workspace) Latest() (string, error) {
	if _, err := os.Stat(w.Dir()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNoPlan
		}
		return "", err
	}

	if err := w.EnsureGitignore(); err != nil {
		return "", err
	}

	folders, err := w.folders()
	if err != nil {
		return "", err
	}
	sort.SliceStable(folders, func(i, j int) bool {
		if folders[i].number != folders[j].number {
			return folders[i].number > folders[j].number
		}
		return folders[i].name < folders[j].name
	})

	for _, f := range folders {
		info, err := os.Stat(filepath.Join(w.Dir(), f.name, PlanFileName))
		if err == nil && !info.IsDir() {
			return path.Join(ModernizationDir, f.name, PlanFileName), nil
		}
	}
	return "", ErrNoPlan
}
