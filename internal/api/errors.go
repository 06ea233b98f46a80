// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import "github.com/tomtom215/velora/internal/middleware"

// Generic messages.
const (
	MsgInternalError = middleware.MsgInternalError
	MsgInvalidData   = "Data tidak valid"
	MsgInvalidJSON   = "Format JSON tidak valid"
	MsgDuplicate     = "Data sudah ada dalam sistem"
	MsgMissingData   = "Data yang diperlukan tidak lengkap"
	MsgNotFound      = "Data tidak ditemukan"
	MsgRouteNotFound = "Endpoint tidak ditemukan"
	MsgBadMethod     = "Metode tidak diizinkan"
	MsgTooMany       = "Terlalu banyak permintaan, silakan coba lagi nanti"
)

// Auth and account messages.
const (
	MsgEmailOrPhoneTaken  = "Email atau nomor HP sudah terdaftar"
	MsgRegistered         = "Akun berhasil dibuat"
	MsgBadCredentials     = "Email/nama atau password salah"
	MsgAccountInactive    = "Akun tidak aktif"
	MsgLoggedIn           = "Login berhasil"
	MsgLoggedOut          = "Logout berhasil"
	MsgResetSent          = "Kode OTP telah dikirim ke email Anda"
	MsgOTPVerified        = "OTP berhasil diverifikasi"
	MsgPasswordReset      = "Password berhasil direset"
	MsgResetTokenInvalid  = "Token reset tidak valid atau sudah kedaluwarsa"
	MsgUserNotFound       = "User tidak ditemukan"
	MsgUsernameTaken      = "Username sudah digunakan"
	MsgProfileUpdated     = "Profil berhasil diperbarui"
	MsgWrongOldPassword   = "Password lama tidak benar"
	MsgPasswordChanged    = "Password berhasil diubah"
	MsgWrongPassword      = "Password tidak benar"
	MsgEmailTaken         = "Email sudah digunakan"
	MsgEmailChanged       = "Email berhasil diubah"
	MsgNoFile             = "Tidak ada file yang diupload"
	MsgAvatarUploaded     = "Foto profil berhasil diupload"
	MsgPasswordRequired   = "Password diperlukan untuk menghapus akun"
	MsgAccountDeleted     = "Akun berhasil dihapus"
	MsgPredicted          = "Prediksi berhasil dilakukan"
	MsgPredictionSaved    = "Hasil prediksi berhasil disimpan"
	MsgPredictionNotFound = "Prediksi tidak ditemukan"
	MsgPredictionDeleted  = "Prediksi berhasil dihapus"
	MsgPredictionNotOwned = "Anda tidak memiliki akses untuk menghapus prediksi ini"
)

// Gallery messages.
const (
	MsgPhotoNotFound     = "Foto tidak ditemukan"
	MsgPhotoUploaded     = "Foto berhasil diupload"
	MsgPhotosUploaded    = "%d foto berhasil diupload"
	MsgPhotoUpdated      = "Foto berhasil diperbarui"
	MsgPhotoDeleted      = "Foto berhasil dihapus"
	MsgPhotoEditDenied   = "Anda tidak memiliki akses untuk mengedit foto ini"
	MsgPhotoDeleteDenied = "Anda tidak memiliki akses untuk menghapus foto ini"
	MsgFileTooLarge      = "Ukuran file terlalu besar"
	MsgUnsupportedType   = "Format file tidak didukung"
	MsgTooManyFiles      = "Jumlah file melebihi batas"
	MsgUndecodable       = "File gambar tidak dapat diproses"
	MsgTooManyPixels     = "Dimensi gambar terlalu besar"
)

// Timeline messages.
const (
	MsgProfileNotFound = "Profil kehamilan tidak ditemukan"
	MsgProfileSaved    = "Profil kehamilan berhasil disimpan"
	MsgEntrySaved      = "Data timeline berhasil disimpan"
	MsgEntryNotFound   = "Data timeline tidak ditemukan"
	MsgEntryDeleted    = "Data timeline berhasil dihapus"
	MsgInvalidWeek     = "Minggu kehamilan tidak valid"
)

// Journal messages.
const (
	MsgArticleNotFound     = "Artikel tidak ditemukan"
	MsgArticleCreated      = "Artikel berhasil dibuat"
	MsgArticleUpdated      = "Artikel berhasil diperbarui"
	MsgArticleDeleted      = "Artikel berhasil dihapus"
	MsgArticleEditDenied   = "Anda tidak memiliki akses untuk mengedit artikel ini"
	MsgArticleDeleteDenied = "Anda tidak memiliki akses untuk menghapus artikel ini"
	MsgBookmarked          = "Artikel berhasil dibookmark"
	MsgBookmarkRemoved     = "Bookmark dihapus"
)
