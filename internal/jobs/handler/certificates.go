package handler

import (
	"net/http"

	"berhub_backend/internal/adapters/storage"
	"berhub_backend/internal/jobs/transport"
	"berhub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// SetCertificateStorage injects the object store and bucket for certificate
// uploads. Without it the upload routes return 503.
func (h *Handler) SetCertificateStorage(store storage.CertificateStore, bucket string) {
	h.certStore = store
	h.certBucket = bucket
}

// UploadCertificate accepts the certificate file, stores it, and completes
// the job with the stored file key in one request.
func (h *Handler) UploadCertificate(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	jobID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if h.certStore == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "certificate storage is not configured", nil)
		return
	}

	fileHeader, err := c.FormFile("certificate")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing certificate file", err.Error())
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.certStore.ValidateUpload(contentType, fileHeader.Size); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid certificate file", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "cannot read certificate file", err.Error())
		return
	}
	defer file.Close()

	fileKey, err := h.certStore.Upload(c.Request.Context(), h.certBucket, jobID.String(), fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		httpkit.Error(c, http.StatusBadGateway, "certificate upload failed", err.Error())
		return
	}

	job, err := h.svc.Complete(c.Request.Context(), jobID, id.UserID(), transport.CompleteRequest{CertificateRef: fileKey})
	if err != nil {
		// The job refused the transition; don't leave the orphaned object
		// behind.
		_ = h.certStore.Delete(c.Request.Context(), h.certBucket, fileKey)
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"job": transport.FromDomainJob(job), "fileKey": fileKey})
}

// DownloadCertificate returns a time-limited URL for the job's stored
// certificate.
func (h *Handler) DownloadCertificate(c *gin.Context) {
	jobID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if h.certStore == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "certificate storage is not configured", nil)
		return
	}

	job, err := h.svc.GetJob(c.Request.Context(), jobID)
	if httpkit.HandleError(c, err) {
		return
	}
	if job.CertificateRef == nil {
		httpkit.Error(c, http.StatusNotFound, "job has no certificate", nil)
		return
	}

	presigned, err := h.certStore.PresignDownload(c.Request.Context(), h.certBucket, *job.CertificateRef)
	if err != nil {
		httpkit.Error(c, http.StatusBadGateway, "certificate download failed", err.Error())
		return
	}

	httpkit.OK(c, presigned)
}
