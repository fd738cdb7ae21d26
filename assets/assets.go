// Package assets locates the templates and static files served by the
// web UI and can print what was found.
package assets

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/brubcam/GEOG-464-Lab-8/style"
)

// marker is a file every deployment of the web UI ships with.
const marker = "templates/index.html.tmpl"

// BaseDir returns the directory holding templates/ and static/. Dev mode
// always uses the working directory; otherwise the binary's directory wins
// when it carries the assets.
func BaseDir(devMode bool) (string, error) {
	if devMode {
		return os.Getwd()
	}

	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	exeDir := filepath.Dir(exe)

	if _, err := os.Stat(filepath.Join(exeDir, marker)); err == nil {
		return exeDir, nil
	}

	return os.Getwd()
}

// Load returns subdir of the base directory as a filesystem.
func Load(devMode bool, subdir string) (fs.FS, error) {
	baseDir, err := BaseDir(devMode)
	if err != nil {
		return nil, fmt.Errorf("failed to get base directory: %w", err)
	}

	path := filepath.Join(baseDir, subdir)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}
	return os.DirFS(path), nil
}

// Print writes a tree of f to w.
func Print(w io.Writer, name string, f fs.FS) {
	entries, err := fs.ReadDir(f, ".")
	if err != nil {
		fmt.Fprintf(w, "%s %v\n", style.Error.Render("Error reading "+name+":"), err)
		return
	}

	fmt.Fprintln(w, style.Section.Render(name+":"))
	for _, entry := range entries {
		prefix := "  └─"
		if entry.IsDir() {
			fmt.Fprintf(w, "%s %s\n", prefix, style.Dir.Render("📁 "+entry.Name()+"/"))
			printDir(w, f, entry.Name(), "     ")
		} else {
			fmt.Fprintf(w, "%s %s\n", prefix, style.File.Render("📄 "+entry.Name()))
		}
	}
}

func printDir(w io.Writer, f fs.FS, dir string, indent string) {
	entries, err := fs.ReadDir(f, dir)
	if err != nil {
		return
	}

	for i, entry := range entries {
		isLast := i == len(entries)-1
		prefix := indent + "└─"
		if !isLast {
			prefix = indent + "├─"
		}

		if entry.IsDir() {
			fmt.Fprintf(w, "%s %s\n", prefix, style.Dir.Render("📁 "+entry.Name()+"/"))
			newIndent := indent
			if isLast {
				newIndent += "   "
			} else {
				newIndent += "│  "
			}
			printDir(w, f, dir+"/"+entry.Name(), newIndent)
		} else {
			fmt.Fprintf(w, "%s %s\n", prefix, style.File.Render("📄 "+entry.Name()))
		}
	}
}
