// Package pixbuf holds packed 8-bit pixel buffers in a fixed channel layout
// (RGB, RGBA, gray, gray+alpha, BGR, BGRA) and converts decoded images into them.
//
// A Buffer implements image.Image, so it can be passed straight to
// image/png or any other encoder:
//
//	buf, err := pixbuf.FromImage(img, pixbuf.RGB)
//	if err != nil {
//	    return err
//	}
//	return png.Encode(w, buf)
package pixbuf
