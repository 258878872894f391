// Package find locates USB serial adapters by walking /sys/class/tty, so
// the bench tool can default its -port flag to the Prologix adapter without
// the operator hunting for the device node.
package find

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Filter narrows the candidate USB ttys; the first tty it accepts is chosen.
type Filter func(*Usbtty) bool

// Prologix matches the Prologix GPIB-USB controller, an FTDI-based adapter.
func Prologix(ut *Usbtty) bool {
	if strings.Contains(ut.Prod, "Prologix") {
		return true
	}
	return ut.IDv == "0403" && strings.Contains(ut.Mfg, "FTDI")
}

// SerialFilter matches a tty by its USB serial number.
func SerialFilter(s string) Filter {
	return func(ut *Usbtty) bool { return ut.Serial == s }
}

// Find searches for a USB serial device. If filter is not nil, it is used
// to narrow choices down; the first device it accepts (if any) is chosen.
// A single match returns its device name, e.g. "ttyUSB0".
func Find(filter Filter) (string, error) {
	ttys, err := AllUsbTtys()
	if err != nil {
		return "", err
	}
	if filter != nil {
		for i := range ttys {
			if filter(&ttys[i]) {
				ttys = []Usbtty{ttys[i]}
				break
			}
		}
	}

	if len(ttys) == 0 {
		return "", fmt.Errorf("no matching ttys found")
	}
	if len(ttys) == 1 {
		return ttys[0].Dev, nil
	}
	return "", fmt.Errorf("multiple ttys: %#v", ttys)
}

// Usbtty describes one USB serial device node.
type Usbtty struct {
	Dev, Path string
	IDp, IDv  string
	Mfg, Prod string
	Serial    string
}

func (u Usbtty) String() string {
	return fmt.Sprintf("dev %s path %s pid/vid %s/%s mfg/prod %s/%s serial %s",
		u.Dev, u.Path, u.IDp, u.IDv, u.Mfg, u.Prod, u.Serial)
}

// AllUsbTtys finds ttys on USB devices by looking at /sys/class/tty and the
// /sys paths its symlinks resolve to.
func AllUsbTtys() ([]Usbtty, error) {
	var devs []Usbtty
	const sct = "/sys/class/tty/"
	entries, err := os.ReadDir(sct)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Type()&fs.ModeSymlink == 0 {
			continue
		}
		// a symlink like /sys/class/tty/ttyUSB0 ->
		// /sys/devices/pci.../usb1/1-10/1-10:1.0/tty/ttyUSB0
		path := filepath.Join(sct, e.Name())
		abs, err := filepath.EvalSymlinks(path)
		if err != nil {
			log.Printf("error evaluating symlink %s; skipping: %s", path, err)
			continue
		}
		if !strings.Contains(abs, "usb") {
			continue
		}
		dev, err := filepath.EvalSymlinks(filepath.Join(abs, "device"))
		if err != nil {
			log.Printf("usb tty lacking device subdir?! %s %s", abs, err)
			continue
		}
		// the descriptor files live one level above the interface dir
		ut, err := readUsbInfo(filepath.Dir(dev))
		if err != nil {
			log.Printf("%s: %s", abs, err)
		}
		ut.Dev = e.Name()
		ut.Path = abs
		devs = append(devs, ut)
	}
	return devs, nil
}

// readUsbInfo reads the product and vendor ids and the mfg/product/serial
// strings for the USB device rooted at dir.
//
// It returns the last error encountered, ignoring os.ErrNotExist; an error
// does not prevent reading the remaining files or returning what was
// collected.
func readUsbInfo(dir string) (Usbtty, error) {
	var ut Usbtty
	var err error
	read := func(name string) string {
		b, rerr := os.ReadFile(filepath.Join(dir, name))
		if rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			err = rerr
		}
		return strings.TrimSpace(string(b))
	}
	ut.IDp = read("idProduct")
	ut.IDv = read("idVendor")
	ut.Mfg = read("manufacturer")
	ut.Prod = read("product")
	ut.Serial = read("serial")
	return ut, err
}
