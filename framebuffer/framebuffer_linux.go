package framebuffer

import (
	"encoding/binary"
	"fmt"
	"image"
	"os"
	"syscall"
	"unsafe"

	"github.com/BeatGlow/paint/internal/ioctl"
	"github.com/BeatGlow/paint/pixel"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x].
func Open(name string) (*FrameBuffer, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	var (
		fd     = f.Fd()
		info   linuxFixScreenInfo
		screen linuxVarScreenInfo
	)
	if err = ioctl.Call(fd, fbioGetFScreenInfo, unsafe.Pointer(&info)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = ioctl.Call(fd, fbioGetVScreenInfo, unsafe.Pointer(&screen)); err != nil {
		_ = f.Close()
		return nil, err
	}

	pix, err := syscall.Mmap(int(fd), 0, int(info.SmemLen), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	buffer := pixel.Buffer{
		Rect:   image.Rect(0, 0, int(screen.Xres), int(screen.Yres)),
		Pix:    pix,
		Stride: int(info.LineLength),
	}
	img, err := linuxImage(&screen, buffer)
	if err != nil {
		_ = syscall.Munmap(pix)
		_ = f.Close()
		return nil, err
	}
	if need := buffer.Stride * buffer.Rect.Dy(); need > len(pix) {
		_ = syscall.Munmap(pix)
		_ = f.Close()
		return nil, fmt.Errorf("framebuffer: mapped %d bytes, need %d", len(pix), need)
	}

	return &FrameBuffer{
		Image: img,
		name:  name,
		close: func() error {
			if err := syscall.Munmap(pix); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}, nil
}

type linuxFixScreenInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Reserved   [3]uint16 // Reserved for future compatibility
}

// linuxBitField for the color
type linuxBitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

func (f linuxBitField) is(offset, length uint32) bool {
	return f.Offset == offset && f.Length == length
}

// linuxVarScreenInfo contains device independent changeable information about a frame buffer device and a specific video mode.
type linuxVarScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha linuxBitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

// linuxImage picks the image type matching the pixel layout reported by the
// device. Pixels are stored in native (little endian) byte order.
func linuxImage(info *linuxVarScreenInfo, buffer pixel.Buffer) (pixel.Image, error) {
	switch info.BitsPerPixel {
	case 15, 16:
		var format pixel.Format16
		switch {
		case info.Red.is(10, 5) && info.Green.is(5, 5) && info.Blue.is(0, 5):
			format = pixel.FormatCRGB15
		case info.Blue.is(10, 5) && info.Green.is(5, 5) && info.Red.is(0, 5):
			format = pixel.FormatCBGR15
		case info.Red.is(11, 5) && info.Green.is(5, 6) && info.Blue.is(0, 5):
			format = pixel.FormatCRGB16
		case info.Blue.is(11, 5) && info.Green.is(5, 6) && info.Red.is(0, 5):
			format = pixel.FormatCBGR16
		default:
			return nil, fmt.Errorf("%w: %d bpp", ErrUnsupportedModel, info.BitsPerPixel)
		}
		return &pixel.Image16{
			Buffer: buffer,
			Format: format,
			Order:  binary.LittleEndian,
		}, nil

	case 32:
		if info.Red.Length != 8 || info.Green.Length != 8 || info.Blue.Length != 8 {
			return nil, fmt.Errorf("%w: %d bpp", ErrUnsupportedModel, info.BitsPerPixel)
		}
		img := &rgba32{
			Buffer: buffer,
			r:      int(info.Red.Offset / 8),
			g:      int(info.Green.Offset / 8),
			b:      int(info.Blue.Offset / 8),
			a:      -1,
		}
		if info.Alpha.Length == 8 {
			img.a = int(info.Alpha.Offset / 8)
		}
		return img, nil
	}

	return nil, fmt.Errorf("%w: %d bpp", ErrUnsupportedModel, info.BitsPerPixel)
}
