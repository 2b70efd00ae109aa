// Package ioutils provides file system and image processing helpers.
//
// # File Operations
//
//	err := ioutils.EnsureDir("/music/Artist - Album")
//	err := ioutils.WriteFile("/music/Artist - Album/Album.m3u", []byte(content))
//
// # Image Processing
//
// ImageService prepares cover art for embedding and saving:
//
//	svc := ioutils.NewImageService()
//	resized, _ := svc.ResizeImage(ctx, imageData, 1000, 1000)
//	jpegData, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
