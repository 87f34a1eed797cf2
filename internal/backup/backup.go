package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/sshsentinel/internal/model"
)

// Suffix is appended to a configuration path to form its backup sibling.
const Suffix = ".bak"

// Path returns the backup sibling path for a configuration file.
func Path(configPath string) string {
	return configPath + Suffix
}

// Write copies the live configuration file byte-for-byte to bakPath,
// or to the default "<configPath>.bak" sibling when bakPath is empty.
// Any existing backup at the target is overwritten wholesale.
//
// Returns the backup path that was written. Fails with
// model.ExitConfigNotFound when the source file does not exist.
func Write(configPath, bakPath string) (string, error) {
	if bakPath == "" {
		bakPath = Path(configPath)
	}

	if err := copyFile(configPath, bakPath); err != nil {
		if os.IsNotExist(err) {
			return "", model.WrapCLIError(model.ExitConfigNotFound,
				fmt.Sprintf("config file not found: %s", configPath), err)
		}
		return "", model.WrapCLIError(model.ExitIOError,
			fmt.Sprintf("failed to write backup %s", bakPath), err)
	}
	return bakPath, nil
}

// Restore copies the backup back over the live configuration file.
// When bakPath is empty the default "<configPath>.bak" sibling is used.
//
// Fails with model.ExitBackupNotFound when no backup exists; the live
// file is left unmodified on any failure.
func Restore(configPath, bakPath string) error {
	if bakPath == "" {
		bakPath = Path(configPath)
	}

	if _, err := os.Stat(bakPath); err != nil {
		if os.IsNotExist(err) {
			return model.NewCLIError(model.ExitBackupNotFound,
				fmt.Sprintf("backup not found: %s", bakPath))
		}
		return model.WrapCLIError(model.ExitIOError,
			fmt.Sprintf("failed to stat backup %s", bakPath), err)
	}

	if err := copyFile(bakPath, configPath); err != nil {
		return model.WrapCLIError(model.ExitIOError,
			fmt.Sprintf("failed to restore %s from %s", configPath, bakPath), err)
	}
	return nil
}

// Ensure creates the default backup sibling from the live file only when
// no backup is currently present. An existing backup is never touched,
// which makes repeated calls idempotent.
//
// Returns the backup path in both cases.
func Ensure(configPath string) (string, error) {
	bakPath := Path(configPath)

	if _, err := os.Stat(bakPath); err == nil {
		return bakPath, nil
	} else if !os.IsNotExist(err) {
		return "", model.WrapCLIError(model.ExitIOError,
			fmt.Sprintf("failed to stat backup %s", bakPath), err)
	}

	return Write(configPath, bakPath)
}

// WriteFileAtomic writes data to path through a temporary file in the
// same directory followed by a rename. A crash mid-write can therefore
// leave the target at its previous content, never truncated. The mode of
// an existing target is preserved; new files get 0644.
func WriteFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return model.WrapCLIError(model.ExitIOError,
			fmt.Sprintf("failed to create temp file in %s", dir), err)
	}
	tmpName := tmp.Name()

	// On any failure below the temp file is removed so no droppings are
	// left next to the config.
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return model.WrapCLIError(model.ExitIOError,
			fmt.Sprintf("failed to write %s", path), err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return model.WrapCLIError(model.ExitIOError,
			fmt.Sprintf("failed to set mode on %s", tmpName), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return model.WrapCLIError(model.ExitIOError,
			fmt.Sprintf("failed to close %s", tmpName), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return model.WrapCLIError(model.ExitIOError,
			fmt.Sprintf("failed to replace %s", path), err)
	}
	return nil
}

// copyFile copies src to dst, preserving the source file mode. The copy
// streams through io.Copy so large files never load fully into memory.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return dstFile.Close()
}
