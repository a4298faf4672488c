package logwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const megabyte = 1024 * 1024

// rotatingFile пишет записи в файл и ротирует его по размеру в байтах.
//
// Если maxBytes или backupCount равен нулю, файл только дописывается.
// Иначе ротация выполняется через lumberjack, хранится не более
// backupCount старых файлов.
type rotatingFile struct {
	path        string
	maxBytes    int64
	backupCount int
	size        int64

	lj   *lumberjack.Logger
	file *os.File

	// lastRotate — момент последней ротации. lumberjack именует копии
	// с точностью до миллисекунды.
	lastRotate time.Time

	onRotate func()
}

// openRotatingFile создаёт каталог и открывает файл логов.
func openRotatingFile(path string, maxBytes int64, backupCount int, compress bool) (*rotatingFile, error) {
	if maxBytes < 0 {
		maxBytes = 0
	}
	if backupCount < 0 {
		backupCount = 0
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("не удалось создать каталог логов %q: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	rf := &rotatingFile{path: path, maxBytes: maxBytes, backupCount: backupCount}
	if info, err := f.Stat(); err == nil {
		rf.size = info.Size()
	}

	if maxBytes > 0 && backupCount > 0 {
		// lumberjack открывает файл сам при первой записи.
		_ = f.Close()
		// Порог lumberjack заведомо выше maxBytes: ротацией управляет Write.
		rf.lj = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    int(maxBytes/megabyte) + 2,
			MaxBackups: backupCount,
			Compress:   compress,
		}
		return rf, nil
	}

	rf.file = f
	return rf, nil
}

// waitBackupSlot ждёт следующей миллисекунды после прошлой ротации, иначе
// новая копия получит то же имя и перезапишет предыдущую.
func (rf *rotatingFile) waitBackupSlot() {
	if rf.lastRotate.IsZero() {
		return
	}
	next := rf.lastRotate.Truncate(time.Millisecond).Add(time.Millisecond)
	if d := time.Until(next); d > 0 {
		time.Sleep(d)
	}
}

func (rf *rotatingFile) writeRecord(_ Level, line string) error {
	_, err := rf.Write([]byte(line + "\n"))
	return err
}

// Write ротирует файл, если запись p превысила бы maxBytes, затем пишет p.
func (rf *rotatingFile) Write(p []byte) (int, error) {
	if rf.lj != nil && rf.size > 0 && rf.size+int64(len(p)) > rf.maxBytes {
		if err := rf.rotate(); err != nil {
			return 0, err
		}
	}

	var (
		n   int
		err error
	)
	if rf.lj != nil {
		n, err = rf.lj.Write(p)
	} else {
		n, err = rf.file.Write(p)
	}
	rf.size += int64(n)
	return n, err
}

func (rf *rotatingFile) rotate() error {
	rf.waitBackupSlot()
	if err := rf.lj.Rotate(); err != nil {
		return fmt.Errorf("ротация %s: %w", rf.path, err)
	}
	rf.lastRotate = time.Now()
	rf.size = 0
	if rf.onRotate != nil {
		rf.onRotate()
	}
	return nil
}

// Close закрывает файл.
func (rf *rotatingFile) Close() error {
	if rf.lj != nil {
		return rf.lj.Close()
	}
	return rf.file.Close()
}
