package layout

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// FillCrop scales src to cover the target rectangle and center-crops the
// surplus dimension, so the result is exactly targetW x targetH with the
// source aspect ratio preserved. The crop window is computed in source
// coordinates and scaled in a single pass, which avoids the 1px border
// artifacts of resizing and cropping as two independently rounded steps.
func FillCrop(src image.Image, targetW, targetH int) (*image.RGBA, error) {
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("fill crop: target size %dx%d must be positive", targetW, targetH)
	}
	srcBounds := src.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return nil, fmt.Errorf("fill crop: empty source image")
	}

	srcRatio := float64(srcW) / float64(srcH)
	dstRatio := float64(targetW) / float64(targetH)

	// Shrink the source window to the target aspect ratio, centered.
	window := srcBounds
	if srcRatio > dstRatio {
		// Source is wider: crop width.
		cropW := int(float64(srcH) * dstRatio)
		left := srcBounds.Min.X + (srcW-cropW)/2
		window = image.Rect(left, srcBounds.Min.Y, left+cropW, srcBounds.Max.Y)
	} else if srcRatio < dstRatio {
		// Source is taller: crop height.
		cropH := int(float64(srcW) / dstRatio)
		top := srcBounds.Min.Y + (srcH-cropH)/2
		window = image.Rect(srcBounds.Min.X, top, srcBounds.Max.X, top+cropH)
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, window, draw.Src, nil)
	return dst, nil
}
